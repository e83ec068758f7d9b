package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"ubersystem/internal/tracking/models"
)

// Message is the JSON value of one feed record.
type Message struct {
	ID     int64  `json:"id"`
	When   string `json:"when"`
	Who    string `json:"who"`
	Which  string `json:"which"`
	Model  string `json:"model"`
	FKID   int64  `json:"fk_id"`
	Action string `json:"action"`
	Data   string `json:"data"`
}

// NewMessage converts a tracking row to its feed form.
func NewMessage(row *models.Tracking) Message {
	return Message{
		ID:     int64(row.ID),
		When:   row.When.UTC().Format(time.RFC3339Nano),
		Who:    row.Who,
		Which:  row.Which,
		Model:  row.Model,
		FKID:   row.FKID,
		Action: row.Action.String(),
		Data:   row.Data,
	}
}

// KafkaPublisher produces feed records keyed by "<model>:<fk_id>" so all the
// history of one entity lands on one partition in order.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// EnsureTopic creates the feed topic when it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	if r, ok := resp[p.topic]; ok && r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, r.Err)
	}
	return nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, rows []*models.Tracking) error {
	records := make([]*kgo.Record, 0, len(rows))
	for _, row := range rows {
		value, err := json.Marshal(NewMessage(row))
		if err != nil {
			return fmt.Errorf("marshal tracking row %d: %w", row.ID, err)
		}
		records = append(records, &kgo.Record{
			Key:   []byte(row.Model + ":" + strconv.FormatInt(row.FKID, 10)),
			Value: value,
		})
	}
	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce tracking feed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
