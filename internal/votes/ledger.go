// Package votes keeps the per-(item, voter) vote ledger consistent with the
// denormalized vote counter on the parent item.
//
// A cast is a sequence of up to three store writes — ledger delete, ledger
// insert, aggregate write — issued strictly in that order with no wrapping
// transaction. Concurrent casts on the same item can interleave and leave the
// counter diverged from the ledger tally; the next full refetch self-corrects
// what the user sees. That last-write-wins behavior is the contract, do not
// "fix" it by adding locking here.
package votes

import (
	"errors"
	"fmt"

	"feedboard/internal/models"

	"gorm.io/gorm"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Status is the voter's last known vote on an item. None means not yet voted.
type Status string

const (
	None      Status = "none"
	VotedUp   Status = "up"
	VotedDown Status = "down"
)

// ItemKind names which collection the voted item lives in.
type ItemKind string

const (
	KindFeature ItemKind = "feature"
	KindBug     ItemKind = "bug"
)

// ParseKind maps a route segment to an ItemKind.
func ParseKind(s string) (ItemKind, bool) {
	switch ItemKind(s) {
	case KindFeature, KindBug:
		return ItemKind(s), true
	}
	return "", false
}

// ParseDirection maps a form value to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), true
	}
	return "", false
}

func (d Direction) value() int {
	if d == Up {
		return 1
	}
	return -1
}

func (s Status) value() int {
	switch s {
	case VotedUp:
		return 1
	case VotedDown:
		return -1
	}
	return 0
}

// Ledger is the store the vote service writes through. The production
// implementation is GORM over Postgres; tests substitute a fake to observe
// the write sequence.
type Ledger interface {
	// Find returns the voter's vote row for the item, or nil when absent.
	Find(kind ItemKind, itemID, voterID uint) (*models.Vote, error)
	// Delete removes the voter's vote row for the item.
	Delete(kind ItemKind, itemID, voterID uint) error
	// Insert adds a new vote row.
	Insert(vote *models.Vote) error
	// SetAggregate writes the item's denormalized vote counter.
	SetAggregate(kind ItemKind, itemID uint, votes int) error
	// CountByValue tallies ledger rows for the item with the given value.
	CountByValue(kind ItemKind, itemID uint, value int) (int64, error)
}

type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// CastResult is the voter-visible outcome of a cast.
type CastResult struct {
	Aggregate int    `json:"votes"`
	Status    Status `json:"vote_status"`
}

// resolve computes the ledger operations and resulting state for one cast.
// The three cases are mutually exclusive: toggle off, switch direction,
// first vote.
func resolve(dir Direction, status Status, aggregate int) (next Status, newAggregate int, del, ins bool) {
	switch {
	case Status(dir) == status:
		// Toggle off: clicking the held direction again removes the vote.
		return None, aggregate - dir.value(), true, false
	case status != None:
		// Switch: remove the old contribution, add the new one.
		return Status(dir), aggregate + dir.value() - status.value(), true, true
	default:
		// First vote.
		return Status(dir), aggregate + dir.value(), false, true
	}
}

// Cast applies the voter's requested direction given the last known aggregate
// and vote status, persisting the ledger change and then the new aggregate.
// The writes are sequential and non-transactional; an error mid-sequence
// leaves the stores diverged and is reported to the caller as-is.
func (s *Service) Cast(kind ItemKind, itemID, voterID uint, dir Direction, aggregate int, status Status) (CastResult, error) {
	next, newAggregate, del, ins := resolve(dir, status, aggregate)

	if del {
		if err := s.ledger.Delete(kind, itemID, voterID); err != nil {
			return CastResult{}, fmt.Errorf("delete vote: %w", err)
		}
	}
	if ins {
		vote := &models.Vote{
			UserID:   voterID,
			ItemType: string(kind),
			ItemID:   itemID,
			Value:    dir.value(),
		}
		if err := s.ledger.Insert(vote); err != nil {
			return CastResult{}, fmt.Errorf("insert vote: %w", err)
		}
	}
	if err := s.ledger.SetAggregate(kind, itemID, newAggregate); err != nil {
		return CastResult{}, fmt.Errorf("update vote count: %w", err)
	}

	return CastResult{Aggregate: newAggregate, Status: next}, nil
}

// StatusFor looks up the voter's existing vote on an item. A missing row is
// the normal "not yet voted" baseline, not an error.
func (s *Service) StatusFor(kind ItemKind, itemID, voterID uint) (Status, error) {
	vote, err := s.ledger.Find(kind, itemID, voterID)
	if err != nil {
		return None, err
	}
	if vote == nil {
		return None, nil
	}
	if vote.Value > 0 {
		return VotedUp, nil
	}
	return VotedDown, nil
}

// Breakdown tallies the ledger by direction for presentation. It reads the
// ledger only and is not reconciled with the item's aggregate counter.
type Breakdown struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

func (s *Service) Counts(kind ItemKind, itemID uint) (Breakdown, error) {
	up, err := s.ledger.CountByValue(kind, itemID, 1)
	if err != nil {
		return Breakdown{}, err
	}
	down, err := s.ledger.CountByValue(kind, itemID, -1)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{Upvotes: up, Downvotes: down}, nil
}

// gormLedger is the production Ledger over the shared GORM handle.
type gormLedger struct {
	db *gorm.DB
}

// NewGormLedger wraps a GORM handle as a Ledger.
func NewGormLedger(db *gorm.DB) Ledger {
	return &gormLedger{db: db}
}

func (l *gormLedger) Find(kind ItemKind, itemID, voterID uint) (*models.Vote, error) {
	var vote models.Vote
	err := l.db.Where("item_type = ? AND item_id = ? AND user_id = ?", kind, itemID, voterID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (l *gormLedger) Delete(kind ItemKind, itemID, voterID uint) error {
	return l.db.Where("item_type = ? AND item_id = ? AND user_id = ?", kind, itemID, voterID).
		Delete(&models.Vote{}).Error
}

func (l *gormLedger) Insert(vote *models.Vote) error {
	return l.db.Create(vote).Error
}

func (l *gormLedger) SetAggregate(kind ItemKind, itemID uint, votes int) error {
	if kind == KindBug {
		return l.db.Model(&models.Bug{}).Where("id = ?", itemID).UpdateColumn("votes", votes).Error
	}
	return l.db.Model(&models.Feature{}).Where("id = ?", itemID).UpdateColumn("votes", votes).Error
}

func (l *gormLedger) CountByValue(kind ItemKind, itemID uint, value int) (int64, error) {
	var count int64
	err := l.db.Model(&models.Vote{}).
		Where("item_type = ? AND item_id = ? AND value = ?", kind, itemID, value).
		Count(&count).Error
	return count, err
}
