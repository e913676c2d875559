package broker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/cricket"
	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/google/uuid"
)

// Event is the body published for every committed match change.
type Event struct {
	ID         string             `json:"id"`
	Kind       match.UpdateKind   `json:"kind"`
	MatchID    uint               `json:"match_id"`
	Status     match.MatchStatus  `json:"status"`
	Innings    int                `json:"innings"`
	Score      cricket.Score      `json:"score"`
	Overs      string             `json:"overs"`
	Ball       *match.BallEvent   `json:"ball,omitempty"`
	Result     *match.MatchResult `json:"result,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// Publisher turns match updates into broker messages. It implements
// match.Notifier; publish failures are logged, never returned, since the
// change is already committed.
type Publisher struct {
	producer Producer
}

func NewPublisher(p Producer) *Publisher {
	return &Publisher{producer: p}
}

func (p *Publisher) MatchUpdated(_ context.Context, u match.Update) {
	ev := Event{
		ID:         uuid.NewString(),
		Kind:       u.Kind,
		MatchID:    u.Match.ID,
		Status:     u.Match.Status,
		Innings:    u.Match.Live.CurrentInnings,
		Score:      u.Match.Live.Score,
		Overs:      cricket.OversString(u.Match.Live.Score),
		Ball:       u.Ball,
		Result:     u.Match.Result,
		OccurredAt: time.Now().UTC(),
	}
	if u.Ball != nil {
		// The snapshots are large and only needed for undo.
		b := *u.Ball
		b.PreBallState, b.PostBallState = match.LiveState{}, match.LiveState{}
		ev.Ball = &b
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal event for match %d: %v", ev.MatchID, err)
		return
	}
	msg := Message{Topic: TopicName(ev.MatchID, string(ev.Kind)), Key: ev.ID, Value: body}
	if err := p.producer.Produce(msg); err != nil {
		log.Printf("Failed to publish %s: %v", msg.Topic, err)
	}
}
