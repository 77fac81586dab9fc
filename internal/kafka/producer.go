package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"ms-attendance/internal/models"
)

type Producer struct {
	Writer       *kafka.Writer
	CheckinTopic string
	ServiceTopic string
}

func NewProducer(brokers []string, checkinTopic, serviceTopic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{
		Writer:       writer,
		CheckinTopic: checkinTopic,
		ServiceTopic: serviceTopic,
	}
}

// PublishCheckinRecorded streams a new attendance record so downstream
// dashboards can follow check-ins live.
func (p *Producer) PublishCheckinRecorded(record models.Attendance) error {
	msgBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: p.CheckinTopic,
			Key:   []byte(record.ServiceID),
			Value: msgBytes,
		},
	)
}

// PublishServiceCreated streams a newly created service.
func (p *Producer) PublishServiceCreated(service models.Service) error {
	msgBytes, err := json.Marshal(service)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: p.ServiceTopic,
			Key:   []byte(service.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}
	return nil
}
