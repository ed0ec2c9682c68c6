// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const EventCatalogChanged = "catalog.changed"

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// CatalogEvent is published whenever a reload changes the catalog version.
type CatalogEvent struct {
	Source          string    `json:"source"`
	CatalogVersion  string    `json:"catalogVersion"`
	PreviousVersion string    `json:"previousVersion,omitempty"`
	RecordCount     int       `json:"recordCount"`
	LoadedAt        time.Time `json:"loadedAt"`
}

type SNSClient struct {
	client   SNSAPI
	topicARN string
}

func NewSNSClient(ctx context.Context, region, topicARN string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSNSClientWithAPI(sns.NewFromConfig(cfg), topicARN), nil
}

func NewSNSClientWithAPI(client SNSAPI, topicARN string) *SNSClient {
	return &SNSClient{client: client, topicARN: topicARN}
}

// PublishCatalogChanged sends event as a JSON message. The event type and
// source are copied into message attributes for subscription filters.
func (s *SNSClient) PublishCatalogChanged(ctx context.Context, event CatalogEvent) (string, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal catalog event: %w", err)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(s.topicARN),
		Message:  awssdk.String(string(body)),
		Subject:  awssdk.String("Internship catalog updated"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: awssdk.String("String"), StringValue: awssdk.String(EventCatalogChanged)},
			"source":    {DataType: awssdk.String("String"), StringValue: awssdk.String(event.Source)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", s.topicARN, err)
	}
	return awssdk.ToString(out.MessageId), nil
}
