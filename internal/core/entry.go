package core

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	PersonHusband Person = "husband"
	PersonWife    Person = "wife"
)

const (
	KindIncome    Kind = "income"
	KindExpense   Kind = "expense"
	KindCarryover Kind = "carryover"
)

type (
	// Person is one of the two fixed household identities. Closed enumeration.
	Person string

	// Kind identifies which ledger an entry belongs to.
	Kind string

	// Entry is one income, expense, or carryover row in its stored form.
	// Income amounts are positive; expense and carryover amounts are negative.
	// ID and Month are immutable after creation. CreatedAt is server-assigned
	// and used only for stable display ordering.
	Entry struct {
		ID        string    `json:"id"`
		Month     Month     `json:"month"`
		Label     string    `json:"label"`
		Amount    int64     `json:"amount"`
		Person    Person    `json:"person"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// EntryKey is the (label, person) pair the copy engine uses for skip-mode
	// duplicate detection within one target month and one kind. Labels compare
	// case-sensitive with no normalization.
	EntryKey struct {
		Label  string
		Person Person
	}

	// EntryInput is the user-facing payload for creating or updating an entry.
	// Amount is always entered as a positive magnitude and negated on write for
	// expense and carryover kinds.
	EntryInput struct {
		Month  Month  `json:"month"`
		Label  string `json:"label" validate:"required,min=1,max=255"`
		Amount int64  `json:"amount" validate:"required,min=1"`
		Person Person `json:"person" validate:"required,oneof=husband wife"`
	}
)

var (
	ErrInvalidPerson = errors.New("invalid person")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrInvalidLabel  = errors.New("invalid label")
	ErrInvalidAmount = errors.New("invalid amount")
)

// validate counts string min/max by rune, which matches the code-point length
// rule for labels.
var validate = validator.New()

func (p Person) Validate() error {
	switch p {
	case PersonHusband, PersonWife:
		return nil
	}
	return ErrInvalidPerson
}

// Other returns the opposite household identity.
func (p Person) Other() Person {
	if p == PersonHusband {
		return PersonWife
	}
	return PersonHusband
}

func (k Kind) Validate() error {
	switch k {
	case KindIncome, KindExpense, KindCarryover:
		return nil
	}
	return ErrInvalidKind
}

func (k Kind) String() string {
	return string(k)
}

// Table returns the store table that holds entries of this kind.
func (k Kind) Table() string {
	switch k {
	case KindIncome:
		return "incomes"
	case KindExpense:
		return "expenses"
	default:
		return "carryovers"
	}
}

// SignedAmount converts a positive input magnitude to the stored sign for the
// kind: income stays positive, expense and carryover are negated.
func (k Kind) SignedAmount(magnitude int64) int64 {
	if k == KindIncome {
		return magnitude
	}
	return -magnitude
}

// MinAmount is the smallest legal nonzero amount of the correct sign for the
// kind: +1 for income, -1 for expense and carryover.
func (k Kind) MinAmount() int64 {
	return k.SignedAmount(1)
}

// Key returns the de-duplication key for skip-mode copies.
func (e Entry) Key() EntryKey {
	return EntryKey{Label: e.Label, Person: e.Person}
}

// Validate checks a user-facing payload before it reaches the store.
func (in EntryInput) Validate() error {
	if err := in.Month.Validate(); err != nil {
		return err
	}
	return validate.Struct(in)
}

// Entry builds the stored form of the input for the given kind, applying the
// sign convention. ID and CreatedAt are left for the store to assign.
func (in EntryInput) Entry(kind Kind) Entry {
	return Entry{
		Month:  in.Month,
		Label:  in.Label,
		Amount: kind.SignedAmount(in.Amount),
		Person: in.Person,
	}
}

// Validate checks a stored entry against the sign convention for its kind.
func (e Entry) Validate(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if err := e.Month.Validate(); err != nil {
		return err
	}
	if err := e.Person.Validate(); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(e.Label); n < 1 || n > 255 {
		return ErrInvalidLabel
	}
	if kind == KindIncome {
		if e.Amount < 1 {
			return ErrInvalidAmount
		}
	} else if e.Amount > -1 {
		return ErrInvalidAmount
	}
	return nil
}
