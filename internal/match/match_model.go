package match

import (
	"fmt"
	"sort"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/cricket"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
	StatusAbandoned MatchStatus = "abandoned"
)

type TeamID string

const (
	TeamA TeamID = "team_a"
	TeamB TeamID = "team_b"
)

// Valid reports whether id names one of the two sides.
func (id TeamID) Valid() bool {
	return id == TeamA || id == TeamB
}

// Other returns the opposing side.
func (id TeamID) Other() TeamID {
	if id == TeamA {
		return TeamB
	}
	return TeamA
}

type TossDecision string

const (
	DecisionBat  TossDecision = "bat"
	DecisionBowl TossDecision = "bowl"
)

// PlayerRef is a squad entry pointing into the shared player pool.
type PlayerRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Team is one side of a match with its ordered squad.
type Team struct {
	ID      TeamID      `json:"id"`
	Name    string      `json:"name"`
	Players []PlayerRef `json:"players"`
}

// Has reports whether playerID is in the squad.
func (t Team) Has(playerID uint) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// MatchConfig fixes the format of a match.
type MatchConfig struct {
	TotalOvers int `json:"total_overs"`
	WideRuns   int `json:"wide_runs"`
	NoBallRuns int `json:"no_ball_runs"`
}

type Toss struct {
	WinnerTeamID TeamID       `json:"winner_team_id"`
	Decision     TossDecision `json:"decision"`
}

// BattingFirst returns the side that bats in the first innings.
func (t Toss) BattingFirst() TeamID {
	if t.Decision == DecisionBat {
		return t.WinnerTeamID
	}
	return t.WinnerTeamID.Other()
}

type BatterStats struct {
	Runs  int `json:"runs"`
	Balls int `json:"balls"`
}

type BowlerStats struct {
	Runs    int `json:"runs"`
	Balls   int `json:"balls"`
	Wickets int `json:"wickets"`
}

// LiveState is the denormalized in-play state of the current innings.
// Player slots use 0 for "nobody selected".
type LiveState struct {
	CurrentInnings int           `json:"current_innings"`
	BattingTeamID  TeamID        `json:"batting_team_id"`
	BowlingTeamID  TeamID        `json:"bowling_team_id"`
	StrikerID      uint          `json:"striker_id"`
	NonStrikerID   uint          `json:"non_striker_id"`
	BowlerID       uint          `json:"bowler_id"`
	Score          cricket.Score `json:"score"`

	Batters   map[uint]BatterStats `json:"batters"`
	Bowlers   map[uint]BowlerStats `json:"bowlers"`
	Dismissed []uint               `json:"dismissed"`

	RecentBalls  []string `json:"recent_balls"`
	IsFreeHit    bool     `json:"is_free_hit"`
	LastBowlerID *uint    `json:"last_bowler_id"`

	FirstInningsTotal   *int   `json:"first_innings_total,omitempty"`
	FirstBattingTeamID  TeamID `json:"first_batting_team_id,omitempty"`
	SecondBattingTeamID TeamID `json:"second_batting_team_id,omitempty"`
}

// Clone returns a deep copy sharing no memory with s. Nil maps and slices
// stay nil so that a restored snapshot is indistinguishable from the
// original.
func (s LiveState) Clone() LiveState {
	out := s
	if s.Batters != nil {
		out.Batters = make(map[uint]BatterStats, len(s.Batters))
		for k, v := range s.Batters {
			out.Batters[k] = v
		}
	}
	if s.Bowlers != nil {
		out.Bowlers = make(map[uint]BowlerStats, len(s.Bowlers))
		for k, v := range s.Bowlers {
			out.Bowlers[k] = v
		}
	}
	if s.Dismissed != nil {
		out.Dismissed = append([]uint{}, s.Dismissed...)
	}
	if s.RecentBalls != nil {
		out.RecentBalls = append([]string{}, s.RecentBalls...)
	}
	if s.LastBowlerID != nil {
		id := *s.LastBowlerID
		out.LastBowlerID = &id
	}
	if s.FirstInningsTotal != nil {
		total := *s.FirstInningsTotal
		out.FirstInningsTotal = &total
	}
	return out
}

// IsDismissed reports whether playerID is out in the current innings.
func (s LiveState) IsDismissed(playerID uint) bool {
	i := sort.Search(len(s.Dismissed), func(i int) bool { return s.Dismissed[i] >= playerID })
	return i < len(s.Dismissed) && s.Dismissed[i] == playerID
}

func (s *LiveState) addDismissed(playerID uint) {
	if s.IsDismissed(playerID) {
		return
	}
	s.Dismissed = append(s.Dismissed, playerID)
	sort.Slice(s.Dismissed, func(i, j int) bool { return s.Dismissed[i] < s.Dismissed[j] })
}

// AtOverBoundary reports whether the state sits between two overs.
func (s LiveState) AtOverBoundary() bool {
	return s.Score.Balls == 0 && s.Score.Overs > 0
}

// ResultType is the outcome tag of a decided match.
type ResultType string

const (
	ResultWin ResultType = "win"
	ResultTie ResultType = "tie"
)

type MatchResult struct {
	Type               ResultType      `json:"type"`
	WinnerTeamID       TeamID          `json:"winner_team_id,omitempty"`
	LoserTeamID        TeamID          `json:"loser_team_id,omitempty"`
	Margin             *cricket.Margin `json:"margin,omitempty"`
	MarginText         string          `json:"margin_text,omitempty"`
	FirstInningsTotal  int             `json:"first_innings_total"`
	SecondInningsTotal int             `json:"second_innings_total"`
}

// Match is the aggregate root for one contest.
type Match struct {
	gorm.Model
	OwnerID           uint         `json:"owner_id" gorm:"not null;index;index:idx_one_live_match_per_owner,unique,where:status = 'live'"`
	AuthorizedUserIDs []uint       `json:"authorized_user_ids" gorm:"type:jsonb;serializer:json"`
	Status            MatchStatus  `json:"status" gorm:"type:varchar(20);not null;index"`
	Version           int          `json:"version" gorm:"not null;default:0"`
	Config            MatchConfig  `json:"config" gorm:"type:jsonb;serializer:json"`
	TeamA             Team         `json:"team_a" gorm:"type:jsonb;serializer:json"`
	TeamB             Team         `json:"team_b" gorm:"type:jsonb;serializer:json"`
	Toss              *Toss        `json:"toss,omitempty" gorm:"type:jsonb;serializer:json"`
	Live              LiveState    `json:"live" gorm:"type:jsonb;serializer:json"`
	Result            *MatchResult `json:"result,omitempty" gorm:"type:jsonb;serializer:json"`
	RematchOf         *uint        `json:"rematch_of,omitempty" gorm:"index"`
	StartedAt         *time.Time   `json:"started_at,omitempty"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
}

// Team returns the side with the given id.
func (m *Match) Team(id TeamID) *Team {
	if id == TeamB {
		return &m.TeamB
	}
	return &m.TeamA
}

// CanScore reports whether userID may mutate the match.
func (m *Match) CanScore(userID uint) bool {
	if userID == 0 {
		return false
	}
	if m.OwnerID == userID {
		return true
	}
	for _, id := range m.AuthorizedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of m.
func (m *Match) Clone() *Match {
	out := *m
	out.AuthorizedUserIDs = append([]uint(nil), m.AuthorizedUserIDs...)
	out.TeamA.Players = append([]PlayerRef(nil), m.TeamA.Players...)
	out.TeamB.Players = append([]PlayerRef(nil), m.TeamB.Players...)
	if m.Toss != nil {
		toss := *m.Toss
		out.Toss = &toss
	}
	out.Live = m.Live.Clone()
	if m.Result != nil {
		res := *m.Result
		if m.Result.Margin != nil {
			margin := *m.Result.Margin
			res.Margin = &margin
		}
		out.Result = &res
	}
	if m.RematchOf != nil {
		id := *m.RematchOf
		out.RematchOf = &id
	}
	if m.StartedAt != nil {
		t := *m.StartedAt
		out.StartedAt = &t
	}
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// EventKey positions a delivery in the log. Sequence separates illegal
// deliveries bowled at the same (over, ball) position.
type EventKey struct {
	Innings    int
	Over       int
	BallInOver int
	Sequence   int
}

func (k EventKey) String() string {
	return fmt.Sprintf("%d:%d.%d#%d", k.Innings, k.Over, k.BallInOver, k.Sequence)
}

// WicketRecord is a dismissal as it was applied to the state.
type WicketRecord struct {
	Type         cricket.WicketType `json:"type"`
	PlayerID     uint               `json:"player_id"`
	IsStrikerOut bool               `json:"is_striker_out"`
	// Voided is set when a free hit cancelled the dismissal.
	Voided bool `json:"voided,omitempty"`
}

// BallEvent is one write-once entry of the delivery log.
type BallEvent struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	MatchID        uint            `json:"match_id" gorm:"not null;uniqueIndex:idx_ball_position"`
	Innings        int             `json:"innings" gorm:"not null;uniqueIndex:idx_ball_position"`
	Over           int             `json:"over" gorm:"column:over_no;not null;uniqueIndex:idx_ball_position"`
	BallInOver     int             `json:"ball_in_over" gorm:"not null;uniqueIndex:idx_ball_position"`
	Sequence       int             `json:"sequence" gorm:"not null;uniqueIndex:idx_ball_position"`
	BowlerID       uint            `json:"bowler_id"`
	StrikerID      uint            `json:"striker_id"`
	RunsOffBat     int             `json:"runs_off_bat"`
	Extras         *cricket.Extras `json:"extras,omitempty" gorm:"type:jsonb;serializer:json"`
	Wicket         *WicketRecord   `json:"wicket,omitempty" gorm:"type:jsonb;serializer:json"`
	FreeHit        bool            `json:"free_hit"`
	CompletedMatch bool            `json:"completed_match"`
	PreBallState   LiveState       `json:"pre_ball_state" gorm:"type:jsonb;serializer:json"`
	PostBallState  LiveState       `json:"post_ball_state" gorm:"type:jsonb;serializer:json"`
	RecordedAt     time.Time       `json:"recorded_at" gorm:"not null;index"`
}

// Key returns the structured log position of e.
func (e BallEvent) Key() EventKey {
	return EventKey{Innings: e.Innings, Over: e.Over, BallInOver: e.BallInOver, Sequence: e.Sequence}
}

// Clone returns a deep copy of e.
func (e BallEvent) Clone() BallEvent {
	out := e
	if e.Extras != nil {
		extras := *e.Extras
		out.Extras = &extras
	}
	if e.Wicket != nil {
		w := *e.Wicket
		out.Wicket = &w
	}
	out.PreBallState = e.PreBallState.Clone()
	out.PostBallState = e.PostBallState.Clone()
	return out
}

// ExtrasInput is the optional extras part of a BallInput.
type ExtrasInput struct {
	Type cricket.ExtraType `json:"type" binding:"required"`
	Runs *int              `json:"runs,omitempty"`
}

// WicketInput is the optional dismissal part of a BallInput.
// IsStrikerOut must be given; there is no default end.
type WicketInput struct {
	Type         cricket.WicketType `json:"type" binding:"required"`
	PlayerID     uint               `json:"player_id,omitempty"`
	IsStrikerOut *bool              `json:"is_striker_out"`
}

// BallInput is what the scorer submits for one delivery.
type BallInput struct {
	RunsOffBat int          `json:"runs_off_bat" binding:"min=0,max=7"`
	Extras     *ExtrasInput `json:"extras,omitempty"`
	Wicket     *WicketInput `json:"wicket,omitempty"`
}
