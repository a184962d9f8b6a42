package util

import (
	"reflect"
	"testing"
)

func TestMnemonicsBasenames(t *testing.T) {
	got := Mnemonics([]string{"/data/econ.db", "/data/fx.db"})
	want := []string{"econ", "fx"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected mnemonics %v", got)
	}
}

func TestMnemonicsCollisions(t *testing.T) {
	got := Mnemonics([]string{"/a/econ.db", "/b/econ.db", "/c/fx.db"})
	want := []string{"econ0", "econ1", "fx"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected mnemonics %v", got)
	}
}

func TestMnemonicsNoExtension(t *testing.T) {
	got := Mnemonics([]string{"/data/econ"})
	if got[0] != "econ" {
		t.Fatalf("unexpected mnemonic %v", got)
	}
}
