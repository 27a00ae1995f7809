package yamlutil

import (
	"bytes"
	"errors"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestUnmarshal(t *testing.T) {
	var s sample
	if err := Unmarshal([]byte("name: deck\ncount: 3\n"), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Name != "deck" || s.Count != 3 {
		t.Errorf("Unmarshal() = %+v, want {deck 3}", s)
	}
}

func TestUnmarshalValidation(t *testing.T) {
	var s sample
	if err := Unmarshal(nil, &s); !errors.Is(err, ErrNilData) {
		t.Errorf("Unmarshal(nil) error = %v, want ErrNilData", err)
	}
	if err := Unmarshal([]byte("name: x"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("Unmarshal(_, nil) error = %v, want ErrNilDestination", err)
	}

	old := MaxInputSize
	MaxInputSize = 8
	defer func() { MaxInputSize = old }()
	big := bytes.Repeat([]byte("a"), 16)
	if err := Unmarshal(big, &s); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("Unmarshal(big) error = %v, want ErrInputTooLarge", err)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	var s sample
	if err := UnmarshalStrict([]byte("name: deck\n"), &s); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if err := UnmarshalStrict([]byte("bogus: 1\n"), &s); err == nil {
		t.Error("UnmarshalStrict(unknown key) error = nil, want error")
	}
}
