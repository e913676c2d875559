package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/cricket"
	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicName(t *testing.T) {
	assert.Equal(t, "match.12.ball_recorded", TopicName(12, string(match.UpdateBallRecorded)))
}

func TestPublisherSendsSlimEvent(t *testing.T) {
	b := NewInMemoryBroker()
	defer b.Close()
	sub := b.Consume("match.5.")

	m := &match.Match{Status: match.StatusLive}
	m.ID = 5
	m.Live = match.LiveState{CurrentInnings: 2, Score: cricket.Score{Runs: 30, Wickets: 1, Overs: 3, Balls: 4}}
	ball := &match.BallEvent{
		MatchID:      5,
		Innings:      2,
		Over:         3,
		BallInOver:   3,
		RunsOffBat:   6,
		PreBallState: match.LiveState{CurrentInnings: 2, StrikerID: 9},
	}

	NewPublisher(b).MatchUpdated(context.Background(), match.Update{Kind: match.UpdateBallRecorded, Match: m, Ball: ball})

	select {
	case msg := <-sub:
		assert.Equal(t, "match.5.ball_recorded", msg.Topic)
		assert.NotEmpty(t, msg.Key)

		var ev Event
		require.NoError(t, json.Unmarshal(msg.Value, &ev))
		assert.Equal(t, msg.Key, ev.ID)
		assert.Equal(t, "3.4", ev.Overs)
		assert.Equal(t, 30, ev.Score.Runs)
		require.NotNil(t, ev.Ball)
		assert.Equal(t, 6, ev.Ball.RunsOffBat)
		assert.Zero(t, ev.Ball.PreBallState.StrikerID)
	case <-time.After(time.Second):
		t.Fatal("no message published")
	}
	assert.Equal(t, uint(9), ball.PreBallState.StrikerID, "caller's event must not be modified")
}

func TestInMemoryBrokerFiltersByPrefix(t *testing.T) {
	b := NewInMemoryBroker()
	defer b.Close()
	one := b.Consume("match.1.")
	all := b.Consume("match.")

	require.NoError(t, b.Produce(Message{Topic: "match.2.lifecycle"}))

	select {
	case <-one:
		t.Fatal("match 1 subscriber got a match 2 message")
	default:
	}
	select {
	case msg := <-all:
		assert.Equal(t, "match.2.lifecycle", msg.Topic)
	default:
		t.Fatal("wildcard subscriber missed the message")
	}
}

type failingProducer struct{ calls int }

func (f *failingProducer) Produce(Message) error { f.calls++; return errors.New("broker down") }
func (f *failingProducer) Close() error          { return nil }

func TestPublisherSwallowsProducerErrors(t *testing.T) {
	p := &failingProducer{}
	m := &match.Match{Status: match.StatusCompleted}
	m.ID = 1
	assert.NotPanics(t, func() {
		NewPublisher(p).MatchUpdated(context.Background(), match.Update{Kind: match.UpdateLifecycle, Match: m})
	})
	assert.Equal(t, 1, p.calls)
}
