package store

import "testing"

func TestDurabilityWriteConcern(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	cases := []struct {
		name        string
		d           Durability
		wantNil     bool
		wantW       any
		wantJournal *bool
	}{
		{name: "zero uses deployment default", d: Durability{}, wantNil: true},
		{name: "majority", d: Durability{Majority: true}, wantW: "majority"},
		{name: "numeric", d: Durability{W: 2}, wantW: 2},
		{
			name:        "majority journaled",
			d:           Durability{Majority: true, Journaled: true},
			wantW:       "majority",
			wantJournal: boolPtr(true),
		},
		{
			name:        "w1 journaled",
			d:           Durability{W: 1, Journaled: true},
			wantW:       1,
			wantJournal: boolPtr(true),
		},
		{name: "majority wins over w", d: Durability{W: 3, Majority: true}, wantW: "majority"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wc := tc.d.writeConcern()
			if tc.wantNil {
				if wc != nil {
					t.Fatalf("writeConcern() = %#v, want nil", wc)
				}
				return
			}
			if wc == nil {
				t.Fatal("writeConcern() = nil")
			}
			if wc.W != tc.wantW {
				t.Fatalf("W = %#v, want %#v", wc.W, tc.wantW)
			}
			switch {
			case tc.wantJournal == nil:
				if wc.Journal != nil {
					t.Fatalf("Journal = %v, want nil", *wc.Journal)
				}
			case wc.Journal == nil || *wc.Journal != *tc.wantJournal:
				t.Fatalf("Journal = %v, want %v", wc.Journal, *tc.wantJournal)
			}
		})
	}
}
