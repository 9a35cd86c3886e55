// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/model"
)

// DocumentVersion is written into every saved document.
const DocumentVersion = 1

// document is the on-disk layout. Amounts are JSON numbers carrying the exact
// decimal text; the legacy fields accept files written by the first releases.
type document struct {
	Version  int                   `json:"version,omitempty"`
	Users    map[string]userDoc    `json:"users"`
	Stokvels map[string]stokvelDoc `json:"stokvels"`
}

type userDoc struct {
	CredentialHash string      `json:"credentialHash,omitempty"`
	LegacyPassword string      `json:"password,omitempty"`
	Balance        json.Number `json:"balance"`
	Transactions   []string    `json:"transactions"`
	Stokvels       []string    `json:"stokvels"`
}

type contributionDoc struct {
	ID     string      `json:"id,omitempty"`
	User   string      `json:"user"`
	Amount json.Number `json:"amount"`
	Date   string      `json:"date,omitempty"`
}

type stokvelDoc struct {
	Members           []string          `json:"members"`
	Contributions     []contributionDoc `json:"contributions"`
	Balance           json.Number       `json:"balance"`
	CreatedDate       string            `json:"createdDate,omitempty"`
	CreatedBy         string            `json:"createdBy,omitempty"`
	LegacyCreatedDate string            `json:"created_date,omitempty"`
	LegacyCreatedBy   string            `json:"created_by,omitempty"`
}

// localTimeLayout matches timestamps without a zone, as written by the first
// releases.
const localTimeLayout = "2006-01-02T15:04:05.999999999"

// legacyPlaces is the precision amounts in unversioned documents are rounded
// to. Those files summed binary floats, so balances drift in the last digits.
const legacyPlaces = 2

// Encode serializes state into the document format. The state must satisfy
// model.LedgerState.Validate.
func Encode(state *model.LedgerState) ([]byte, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to encode: %w", err)
	}

	doc := document{
		Version:  DocumentVersion,
		Users:    make(map[string]userDoc, len(state.Users)),
		Stokvels: make(map[string]stokvelDoc, len(state.Stokvels)),
	}
	for id, u := range state.Users {
		doc.Users[id] = userDoc{
			CredentialHash: u.CredentialHash,
			Balance:        json.Number(u.Balance.String()),
			Transactions:   nonNil(u.Transactions),
			Stokvels:       nonNil(u.Stokvels),
		}
	}
	for name, st := range state.Stokvels {
		sd := stokvelDoc{
			Members:       nonNil(st.Members),
			Contributions: make([]contributionDoc, 0, len(st.Contributions)),
			Balance:       json.Number(st.Balance.String()),
			CreatedDate:   formatTime(st.CreatedDate),
			CreatedBy:     st.CreatedBy,
		}
		for _, c := range st.Contributions {
			sd.Contributions = append(sd.Contributions, contributionDoc{
				ID:     c.ID,
				User:   c.User,
				Amount: json.Number(c.Amount.String()),
				Date:   formatTime(c.Date),
			})
		}
		doc.Stokvels[name] = sd
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a document and checks it against every ledger invariant. Any
// problem yields an error wrapping ErrCorruptDocument; nothing is recovered
// partially.
func Decode(data []byte) (*model.LedgerState, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptDocument)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("%w: document version %d is newer than supported version %d", ErrCorruptDocument, doc.Version, DocumentVersion)
	}

	legacy := doc.Version == 0
	state := model.NewLedgerState()
	for id, ud := range doc.Users {
		balance, err := parseAmount(ud.Balance, legacy)
		if err != nil {
			return nil, fmt.Errorf("%w: user %q balance: %w", ErrCorruptDocument, id, err)
		}
		hash := ud.CredentialHash
		if hash == "" {
			hash = ud.LegacyPassword
		}
		state.Users[id] = &model.User{
			ID:             id,
			CredentialHash: hash,
			Balance:        balance,
			Transactions:   nonNil(ud.Transactions),
			Stokvels:       nonNil(ud.Stokvels),
		}
	}
	for name, sd := range doc.Stokvels {
		balance, err := parseAmount(sd.Balance, legacy)
		if err != nil {
			return nil, fmt.Errorf("%w: stokvel %q balance: %w", ErrCorruptDocument, name, err)
		}
		created, err := parseTime(firstNonEmpty(sd.CreatedDate, sd.LegacyCreatedDate))
		if err != nil {
			return nil, fmt.Errorf("%w: stokvel %q created date: %w", ErrCorruptDocument, name, err)
		}
		st := &model.Stokvel{
			Name:          name,
			Members:       nonNil(sd.Members),
			Contributions: make([]model.Contribution, 0, len(sd.Contributions)),
			Balance:       balance,
			CreatedDate:   created,
			CreatedBy:     firstNonEmpty(sd.CreatedBy, sd.LegacyCreatedBy),
		}
		for i, cd := range sd.Contributions {
			amount, err := parseAmount(cd.Amount, legacy)
			if err != nil {
				return nil, fmt.Errorf("%w: stokvel %q contribution %d amount: %w", ErrCorruptDocument, name, i, err)
			}
			date, err := parseTime(cd.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: stokvel %q contribution %d date: %w", ErrCorruptDocument, name, i, err)
			}
			st.Contributions = append(st.Contributions, model.Contribution{
				ID:     cd.ID,
				User:   cd.User,
				Amount: amount,
				Date:   date,
			})
		}
		state.Stokvels[name] = st
	}

	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	return state, nil
}

func parseAmount(n json.Number, legacy bool) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil || !legacy {
		return d, err
	}
	return d.Round(legacyPlaces), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(localTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func nonNil(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
