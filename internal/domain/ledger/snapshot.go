package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/workshop-financial-engine/internal/domain/account"
)

// PostedLine is a line read back from the ledger with its entry header and
// the account it resolves to
type PostedLine struct {
	EntryID       uuid.UUID    `json:"entry_id"`
	EntrySequence int64        `json:"entry_sequence"`
	EntryNumber   string       `json:"entry_number"`
	EntryDate     time.Time    `json:"entry_date"`
	AccountName   string       `json:"account_name"`
	AccountType   account.Type `json:"account_type"`
	Line
}

// Snapshot is a point-in-time cut of the ledger up to AsOf.
// Version is the highest entry sequence it contains. Digest identifies the set
// of entries in the cut: a backdated entry posted into an older period changes
// the digest of that period even when it does not raise Version.
type Snapshot struct {
	AsOf    time.Time    `json:"as_of"`
	Version int64        `json:"version"`
	Digest  string       `json:"digest"`
	Lines   []PostedLine `json:"lines"`
}

// NewSnapshot wraps lines read in one statement
func NewSnapshot(asOf time.Time, lines []PostedLine) Snapshot {
	var version int64
	for _, l := range lines {
		if l.EntrySequence > version {
			version = l.EntrySequence
		}
	}
	return Snapshot{AsOf: asOf, Version: version, Digest: entryDigest(lines), Lines: lines}
}

// entryDigest hashes the ordered distinct entry sequences of lines
func entryDigest(lines []PostedLine) string {
	seqs := make([]int64, 0, len(lines))
	for _, l := range lines {
		seqs = append(seqs, l.EntrySequence)
	}
	slices.Sort(seqs)
	seqs = slices.Compact(seqs)

	h := sha256.New()
	buf := make([]byte, 8)
	for _, seq := range seqs {
		binary.BigEndian.PutUint64(buf, uint64(seq))
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Between returns the lines dated within [start, end], inclusive
func (s Snapshot) Between(start, end time.Time) []PostedLine {
	var out []PostedLine
	for _, l := range s.Lines {
		if InPeriod(l.EntryDate, start, end) {
			out = append(out, l)
		}
	}
	return out
}

// Before returns the lines dated strictly before t
func (s Snapshot) Before(t time.Time) []PostedLine {
	var out []PostedLine
	for _, l := range s.Lines {
		if l.EntryDate.Before(t) {
			out = append(out, l)
		}
	}
	return out
}

// InPeriod reports whether d falls in [start, end]. A zero start is unbounded.
func InPeriod(d, start, end time.Time) bool {
	if !start.IsZero() && d.Before(start) {
		return false
	}
	return !d.After(end)
}
