//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"namehaus/pkg/events"
	"namehaus/pkg/events/kafka"
	"namehaus/pkg/testutil/containers"
)

type PublisherSuite struct {
	suite.Suite
	broker    string
	publisher *kafka.Publisher
}

func TestPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupSuite() {
	rp := containers.NewRedpandaContainer(s.T())
	s.broker = rp.Broker

	pub, err := kafka.New([]string{rp.Broker}, "namehaus.test.events")
	s.Require().NoError(err)
	s.publisher = pub
	s.Require().NoError(s.publisher.EnsureTopic(context.Background(), 1, 1))
}

func (s *PublisherSuite) TearDownSuite() {
	if s.publisher != nil {
		s.publisher.Close()
	}
}

func (s *PublisherSuite) TestAppendRoundTrip() {
	ctx := context.Background()

	sent := events.Event{
		ID:        "evt-1",
		Name:      events.EventRecordListed,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		RecordID:  1,
		Label:     "jack.eth",
		Price:     10,
		Actor:     "0xdeployer",
	}
	s.Require().NoError(s.publisher.Append(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics("namehaus.test.events"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	s.Require().NoError(fetches.Err())

	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal("1", string(records[0].Key))

	var got events.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(sent.ID, got.ID)
	s.Equal(sent.Name, got.Name)
	s.Equal(sent.Label, got.Label)
	s.EqualValues(sent.Price, got.Price)
}

func (s *PublisherSuite) TestEnsureTopicIsIdempotent() {
	s.Require().NoError(s.publisher.EnsureTopic(context.Background(), 1, 1))
}
