package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/models"
)

// SummaryPublisher posts a ProcessingSummary to an SNS topic once a
// notification has been handled.
type SummaryPublisher struct {
	sns      awspkg.SNSPublisher
	topicArn string
}

// NewSummaryPublisher returns nil when topicArn is empty, which disables publishing.
func NewSummaryPublisher(sns awspkg.SNSPublisher, topicArn string) *SummaryPublisher {
	if sns == nil || topicArn == "" {
		return nil
	}
	return &SummaryPublisher{sns: sns, topicArn: topicArn}
}

type summaryEvent struct {
	Type    string                    `json:"type"`
	Summary *models.ProcessingSummary `json:"summary"`
}

func (sp *SummaryPublisher) Publish(ctx context.Context, summary *models.ProcessingSummary) error {
	b, err := json.Marshal(summaryEvent{Type: "csv.processed", Summary: summary})
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return sp.sns.Publish(ctx, sp.topicArn, b)
}
