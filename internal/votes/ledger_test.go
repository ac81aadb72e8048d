package votes

import (
	"errors"
	"fmt"
	"testing"

	"feedboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger records the write sequence so tests can assert ordering without
// a database.
type fakeLedger struct {
	rows          map[string]*models.Vote
	aggregates    map[string]int
	ops           []string
	failAggregate bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		rows:       make(map[string]*models.Vote),
		aggregates: make(map[string]int),
	}
}

func voteKey(kind ItemKind, itemID, voterID uint) string {
	return fmt.Sprintf("%s/%d/%d", kind, itemID, voterID)
}

func itemKey(kind ItemKind, itemID uint) string {
	return fmt.Sprintf("%s/%d", kind, itemID)
}

func (l *fakeLedger) Find(kind ItemKind, itemID, voterID uint) (*models.Vote, error) {
	return l.rows[voteKey(kind, itemID, voterID)], nil
}

func (l *fakeLedger) Delete(kind ItemKind, itemID, voterID uint) error {
	l.ops = append(l.ops, "delete")
	delete(l.rows, voteKey(kind, itemID, voterID))
	return nil
}

func (l *fakeLedger) Insert(vote *models.Vote) error {
	l.ops = append(l.ops, "insert")
	l.rows[voteKey(ItemKind(vote.ItemType), vote.ItemID, vote.UserID)] = vote
	return nil
}

func (l *fakeLedger) SetAggregate(kind ItemKind, itemID uint, votes int) error {
	if l.failAggregate {
		return errors.New("store rejected write")
	}
	l.ops = append(l.ops, "aggregate")
	l.aggregates[itemKey(kind, itemID)] = votes
	return nil
}

func (l *fakeLedger) CountByValue(kind ItemKind, itemID uint, value int) (int64, error) {
	var count int64
	for _, v := range l.rows {
		if ItemKind(v.ItemType) == kind && v.ItemID == itemID && v.Value == value {
			count++
		}
	}
	return count, nil
}

// cast runs the same read-then-cast flow the handler uses.
func cast(t *testing.T, s *Service, dir Direction, aggregate int) CastResult {
	t.Helper()
	status, err := s.StatusFor(KindFeature, 1, 7)
	require.NoError(t, err)
	result, err := s.Cast(KindFeature, 1, 7, dir, aggregate, status)
	require.NoError(t, err)
	return result
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		dir       Direction
		status    Status
		aggregate int
		wantNext  Status
		wantAgg   int
		wantDel   bool
		wantIns   bool
	}{
		{"first upvote", Up, None, 5, VotedUp, 6, false, true},
		{"first downvote", Down, None, 5, VotedDown, 4, false, true},
		{"toggle off up", Up, VotedUp, 6, None, 5, true, false},
		{"toggle off down", Down, VotedDown, 4, None, 5, true, false},
		{"switch down to up", Up, VotedDown, 5, VotedUp, 7, true, true},
		{"switch up to down", Down, VotedUp, 5, VotedDown, 3, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, agg, del, ins := resolve(tt.dir, tt.status, tt.aggregate)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantAgg, agg)
			assert.Equal(t, tt.wantDel, del)
			assert.Equal(t, tt.wantIns, ins)
		})
	}
}

func TestCastFirstVote(t *testing.T) {
	ledger := newFakeLedger()
	s := NewService(ledger)

	result := cast(t, s, Up, 5)

	assert.Equal(t, 6, result.Aggregate)
	assert.Equal(t, VotedUp, result.Status)
	assert.Equal(t, []string{"insert", "aggregate"}, ledger.ops)
	assert.Equal(t, 6, ledger.aggregates[itemKey(KindFeature, 1)])
}

func TestCastToggleOffRestoresBaseline(t *testing.T) {
	ledger := newFakeLedger()
	s := NewService(ledger)

	first := cast(t, s, Up, 5)
	second := cast(t, s, Up, first.Aggregate)

	assert.Equal(t, 5, second.Aggregate)
	assert.Equal(t, None, second.Status)
	assert.Empty(t, ledger.rows)

	status, err := s.StatusFor(KindFeature, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, None, status)
}

func TestCastSwitchDirection(t *testing.T) {
	ledger := newFakeLedger()
	s := NewService(ledger)

	// Voter previously voted down; aggregate last read as 5.
	ledger.rows[voteKey(KindFeature, 1, 7)] = &models.Vote{
		UserID: 7, ItemType: string(KindFeature), ItemID: 1, Value: -1,
	}

	result := cast(t, s, Up, 5)

	assert.Equal(t, 7, result.Aggregate)
	assert.Equal(t, VotedUp, result.Status)

	// The old entry must be removed before the new one lands.
	assert.Equal(t, []string{"delete", "insert", "aggregate"}, ledger.ops)
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, 1, ledger.rows[voteKey(KindFeature, 1, 7)].Value)
}

func TestCastSwitchSwingIsTwo(t *testing.T) {
	ledger := newFakeLedger()
	s := NewService(ledger)

	baseline := 5
	afterUp := cast(t, s, Up, baseline)
	assert.Equal(t, baseline+1, afterUp.Aggregate)

	afterDown := cast(t, s, Down, afterUp.Aggregate)
	assert.Equal(t, afterUp.Aggregate-2, afterDown.Aggregate)
	assert.Equal(t, VotedDown, afterDown.Status)

	require.Len(t, ledger.rows, 1)
	assert.Equal(t, -1, ledger.rows[voteKey(KindFeature, 1, 7)].Value)
}

func TestCastAggregateFailureLeavesLedgerDiverged(t *testing.T) {
	ledger := newFakeLedger()
	ledger.failAggregate = true
	s := NewService(ledger)

	_, err := s.Cast(KindFeature, 1, 7, Up, 5, None)
	require.Error(t, err)

	// No compensation: the ledger insert stands even though the aggregate
	// write failed.
	assert.Len(t, ledger.rows, 1)
	assert.NotContains(t, ledger.aggregates, itemKey(KindFeature, 1))
}

func TestStatusForMissingRowIsNone(t *testing.T) {
	ledger := newFakeLedger()
	s := NewService(ledger)

	status, err := s.StatusFor(KindBug, 42, 7)
	require.NoError(t, err)
	assert.Equal(t, None, status)
}

func TestCounts(t *testing.T) {
	ledger := newFakeLedger()
	s := NewService(ledger)

	ledger.rows["feature/1/1"] = &models.Vote{UserID: 1, ItemType: "feature", ItemID: 1, Value: 1}
	ledger.rows["feature/1/2"] = &models.Vote{UserID: 2, ItemType: "feature", ItemID: 1, Value: 1}
	ledger.rows["feature/1/3"] = &models.Vote{UserID: 3, ItemType: "feature", ItemID: 1, Value: -1}
	ledger.rows["bug/1/1"] = &models.Vote{UserID: 1, ItemType: "bug", ItemID: 1, Value: 1}

	breakdown, err := s.Counts(KindFeature, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), breakdown.Upvotes)
	assert.Equal(t, int64(1), breakdown.Downvotes)
}

func TestParseKindAndDirection(t *testing.T) {
	_, ok := ParseKind("feature")
	assert.True(t, ok)
	_, ok = ParseKind("story")
	assert.False(t, ok)

	_, ok = ParseDirection("down")
	assert.True(t, ok)
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
