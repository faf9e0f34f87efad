package model

import "testing"

func TestDynamicResistance(t *testing.T) {
	r0 := 0.05
	if got := DynamicResistance(r0, 1.0, 2.5); got != r0 {
		t.Fatalf("fresh pack: got %v, want %v", got, r0)
	}
	if got, want := DynamicResistance(r0, 0.0, 2.5), r0*3.5; got != want {
		t.Fatalf("dead pack: got %v, want %v", got, want)
	}
	mid := DynamicResistance(r0, 0.9, 2.5)
	if mid <= r0 || mid >= r0*3.5 {
		t.Fatalf("resistance must grow monotonically with fade: got %v", mid)
	}
}

func TestDefaultModelSpecs(t *testing.T) {
	specs := DefaultModelSpecs()
	if len(specs) != 4 {
		t.Fatalf("expected 4 business models, got %d", len(specs))
	}
	seen := map[string]bool{}
	for _, s := range specs {
		if seen[s.Name] {
			t.Fatalf("duplicate model name %s", s.Name)
		}
		seen[s.Name] = true
		if s.CapacityKWh != DefaultCapacityKWh {
			t.Fatalf("%s: capacity %v", s.Name, s.CapacityKWh)
		}
		if s.Ownership == OwnershipBaaS && s.InitialCapexKSh != 0 {
			t.Fatalf("%s: BaaS models carry no capex", s.Name)
		}
		if s.Ownership == OwnershipOwned && s.InitialCapexKSh <= 0 {
			t.Fatalf("%s: owned models must carry capex", s.Name)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if ChemistrySIB.String() != "SIB" || ChemistryLFP.String() != "LFP" {
		t.Fatalf("chemistry strings: %s %s", ChemistrySIB, ChemistryLFP)
	}
	if OwnershipOwned.String() != "Owned" || OwnershipBaaS.String() != "BaaS" {
		t.Fatalf("ownership strings: %s %s", OwnershipOwned, OwnershipBaaS)
	}
	if Chemistry(99).String() != "unknown" {
		t.Fatalf("out-of-range chemistry should stringify to unknown")
	}
}
