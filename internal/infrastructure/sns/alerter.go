// Package sns publishes operational alerts to an SNS topic. It backs the
// audit channel up for the one failure a moderator must never miss: a
// verification that granted access but could not be durably recorded.
package sns

import (
	"context"
	"fmt"

	appconfig "github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Alerter publishes to the configured topic.
type Alerter struct {
	client   *sns.Client
	topicARN string
}

func NewAlerter(cfg *appconfig.Config) (*Alerter, error) {
	if cfg.AlertTopicARN == "" {
		return nil, fmt.Errorf("no alert topic configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Alerter{client: sns.NewFromConfig(awsCfg), topicARN: cfg.AlertTopicARN}, nil
}

func (a *Alerter) Alert(ctx context.Context, subject, detail string) error {
	_, err := a.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &a.topicARN,
		Subject:  &subject,
		Message:  &detail,
	})
	return err
}
