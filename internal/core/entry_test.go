package core

import (
	"strings"
	"testing"
)

func TestEntryInputValidate(t *testing.T) {
	good := EntryInput{
		Month:  Month(202601),
		Label:  "給料",
		Amount: 300000,
		Person: PersonHusband,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Label length is counted by code point, not byte: 255 multibyte runes
	// must pass even though the byte length is far larger.
	longOK := good
	longOK.Label = strings.Repeat("給", 255)
	if err := longOK.Validate(); err != nil {
		t.Fatalf("255-rune label should validate, got %v", err)
	}

	bads := []EntryInput{
		{Month: Month(202613), Label: "a", Amount: 1, Person: PersonWife},
		{Month: Month(202601), Label: "", Amount: 1, Person: PersonWife},
		{Month: Month(202601), Label: strings.Repeat("給", 256), Amount: 1, Person: PersonWife},
		{Month: Month(202601), Label: "a", Amount: 0, Person: PersonWife},
		{Month: Month(202601), Label: "a", Amount: -100, Person: PersonWife},
		{Month: Month(202601), Label: "a", Amount: 1, Person: "someone"},
		{Month: Month(202601), Label: "a", Amount: 1, Person: ""},
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
}

func TestSignConvention(t *testing.T) {
	in := EntryInput{Month: Month(202601), Label: "食費", Amount: 50000, Person: PersonWife}

	if got := in.Entry(KindIncome).Amount; got != 50000 {
		t.Errorf("income stored amount = %d, want 50000", got)
	}
	if got := in.Entry(KindExpense).Amount; got != -50000 {
		t.Errorf("expense stored amount = %d, want -50000", got)
	}
	if got := in.Entry(KindCarryover).Amount; got != -50000 {
		t.Errorf("carryover stored amount = %d, want -50000", got)
	}

	// Reading back and negating recovers the input magnitude.
	if got := -in.Entry(KindExpense).Amount; got != in.Amount {
		t.Errorf("round trip = %d, want %d", got, in.Amount)
	}
}

func TestKindMinAmount(t *testing.T) {
	if got := KindIncome.MinAmount(); got != 1 {
		t.Errorf("income min = %d, want 1", got)
	}
	if got := KindExpense.MinAmount(); got != -1 {
		t.Errorf("expense min = %d, want -1", got)
	}
	if got := KindCarryover.MinAmount(); got != -1 {
		t.Errorf("carryover min = %d, want -1", got)
	}
}

func TestKindTable(t *testing.T) {
	cases := map[Kind]string{
		KindIncome:    "incomes",
		KindExpense:   "expenses",
		KindCarryover: "carryovers",
	}
	for kind, table := range cases {
		if got := kind.Table(); got != table {
			t.Errorf("%s table = %q, want %q", kind, got, table)
		}
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{Month: Month(202601), Label: "給料", Amount: 1000, Person: PersonHusband}
	if err := good.Validate(KindIncome); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := good.Validate(KindExpense); err == nil {
		t.Error("positive amount should fail expense sign check")
	}

	neg := good
	neg.Amount = -1000
	if err := neg.Validate(KindExpense); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := neg.Validate(KindIncome); err == nil {
		t.Error("negative amount should fail income sign check")
	}

	zero := good
	zero.Amount = 0
	if err := zero.Validate(KindIncome); err == nil {
		t.Error("zero amount should never validate")
	}
	if err := zero.Validate(KindExpense); err == nil {
		t.Error("zero amount should never validate")
	}
}
