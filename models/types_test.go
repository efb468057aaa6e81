// ABOUTME: Tests for record type parsing and foreign-key matching
// ABOUTME: Covers aggregate detection and sparse FK OR-semantics
package models

import "testing"

func TestParseRecordType(t *testing.T) {
	cases := []struct {
		in   string
		want RecordType
		ok   bool
	}{
		{"lead", RecordLead, true},
		{"Contact", RecordContact, true},
		{"  OPPORTUNITY ", RecordOpportunity, true},
		{"company", RecordCompany, true},
		{"deal", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseRecordType(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRecordType(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsAggregate(t *testing.T) {
	if !RecordCompany.IsAggregate() {
		t.Error("company should be aggregate")
	}
	for _, rt := range []RecordType{RecordLead, RecordContact, RecordOpportunity} {
		if rt.IsAggregate() {
			t.Errorf("%s should not be aggregate", rt)
		}
	}
}

func TestActionBelongsTo(t *testing.T) {
	a := Action{ID: "a1", OpportunityID: "opp-3"}

	if !a.BelongsTo("opp-3") {
		t.Error("expected match on opportunity id")
	}
	if a.BelongsTo("opp-4") {
		t.Error("unexpected match")
	}
	if a.BelongsTo("") {
		t.Error("empty record id must never match a sparse foreign key")
	}
}

func TestNoteBelongsToAnyForeignKey(t *testing.T) {
	n := Note{ID: "n1", PersonID: "p-1", AccountID: "acct-9"}

	for _, id := range []string{"p-1", "acct-9"} {
		if !n.BelongsTo(id) {
			t.Errorf("expected match on %s", id)
		}
	}
	if n.BelongsTo("lead-1") {
		t.Error("unexpected match")
	}
}
