package slider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBlockdiagTransformHTML(t *testing.T) {
	cache := FileCache{Dir: t.TempDir(), Link: "/temp/"}
	runner := &fakeRunner{}
	f := &BlockdiagFilter{cache: cache, runner: runner}

	code := "seqdiag { a -> b }"
	got, err := f.Transform(CodeBlockNode(Attr{Classes: []string{"seqdiag"}}, code), "html", nil)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	wantRef := "/temp/seqdiag/" + contentDigest(code) + ".svg"
	want := Para(ImageNode(Attr{}, nil, wantRef, ""))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
	}

	// The source goes through a digest-named file, not stdin.
	srcName := filepath.Join(cache.Dir, "seqdiag", contentDigest(code)+".seqdiag")
	src, err := os.ReadFile(srcName)
	if err != nil {
		t.Fatalf("reading source file: %v", err)
	}
	if string(src) != code+"\n" {
		t.Errorf("source file = %q, want %q", src, code+"\n")
	}
	call := runner.calls[0]
	if call[0] != "seqdiag" || call[len(call)-1] != srcName {
		t.Errorf("renderer call = %v, want seqdiag ... %s", call, srcName)
	}
	if runner.stdins[0] != "" {
		t.Errorf("renderer stdin = %q, want empty", runner.stdins[0])
	}
}

func TestBlockdiagEngines(t *testing.T) {
	cache := FileCache{Dir: t.TempDir(), Link: "/temp/"}
	for _, engine := range []string{"blockdiag", "actdiag", "nwdiag", "packetdiag", "rackdiag"} {
		runner := &fakeRunner{}
		f := &BlockdiagFilter{cache: cache, runner: runner}
		got, err := f.Transform(CodeBlockNode(Attr{Classes: []string{engine}}, "{ a }"), "html", nil)
		if err != nil {
			t.Fatalf("Transform(%s) error = %v", engine, err)
		}
		if got == nil {
			t.Errorf("Transform(%s) = nil, want image paragraph", engine)
		}
		if len(runner.calls) != 1 || runner.calls[0][0] != engine {
			t.Errorf("Transform(%s) renderer calls = %v", engine, runner.calls)
		}
	}
}

func TestBlockdiagCacheHit(t *testing.T) {
	cache := FileCache{Dir: t.TempDir(), Link: "/temp/"}
	runner := &fakeRunner{}
	f := &BlockdiagFilter{cache: cache, runner: runner}

	block := CodeBlockNode(Attr{Classes: []string{"nwdiag"}}, "network { }")
	if _, err := f.Transform(block, "html", nil); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if _, err := f.Transform(block, "html", nil); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(runner.calls) != 1 {
		t.Errorf("renderer calls = %d, want 1 (second hit cached)", len(runner.calls))
	}
}

func TestBlockdiagIgnoresOtherBlocks(t *testing.T) {
	f := &BlockdiagFilter{cache: FileCache{Dir: t.TempDir()}, runner: &fakeRunner{}}

	got, err := f.Transform(CodeBlockNode(Attr{Classes: []string{"dot"}}, "digraph {}"), "html", nil)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if got != nil {
		t.Errorf("Transform() = %#v, want nil", got)
	}
}
