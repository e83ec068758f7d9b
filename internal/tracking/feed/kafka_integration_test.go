//go:build integration

package feed_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"ubersystem/internal/tracking/feed"
	"ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	kafka     *containers.KafkaContainer
	publisher *feed.KafkaPublisher
	topic     string
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	s.topic = "tracking-test"
	var err error
	s.publisher, err = feed.NewKafkaPublisher(s.kafka.Brokers, s.topic)
	s.Require().NoError(err)
}

func (s *KafkaPublisherSuite) TearDownSuite() {
	s.publisher.Close()
}

func (s *KafkaPublisherSuite) TestPublishedRowsCanBeConsumed() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.Require().NoError(s.publisher.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(s.publisher.EnsureTopic(ctx, 1, 1), "existing topic is not an error")

	rows := []*models.Tracking{
		{ID: id.TrackingID(11), When: time.Now(), Who: "Head of Reg", Which: "Ann Smith", Model: "Attendee", FKID: 4, Action: models.ActionCreated, Data: "first_name='Ann'"},
		{ID: id.TrackingID(12), When: time.Now(), Who: "Head of Reg", Which: "Ann Smith", Model: "Attendee", FKID: 4, Action: models.ActionUpdated, Data: "paid='has paid'"},
	}
	s.Require().NoError(s.publisher.Publish(ctx, rows))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.kafka.Brokers...),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []feed.Message
	for len(got) < len(rows) {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			s.Equal("Attendee:4", string(r.Key))
			var m feed.Message
			s.Require().NoError(json.Unmarshal(r.Value, &m))
			got = append(got, m)
		})
	}
	s.Equal(int64(11), got[0].ID)
	s.Equal("created", got[0].Action)
	s.Equal(int64(12), got[1].ID)
	s.Equal("paid='has paid'", got[1].Data)
}
