package pipeline

import (
	"strings"

	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/models"
)

// Transform normalizes one decoded row: values are trimmed and columns left
// empty are dropped. The result depends only on its inputs.
func Transform(raw *models.RawRecord, sourceKey string) (models.NormalizedRecord, error) {
	if raw.Len() == 0 {
		return models.NormalizedRecord{}, errEmptyRecord
	}

	data := models.NewRecord()
	raw.Range(func(key, value string) bool {
		if v := strings.TrimSpace(value); v != "" {
			data.Set(key, v)
		}
		return true
	})

	return models.NormalizedRecord{
		Data: data,
		Metadata: models.Metadata{
			SourceFile:         sourceKey,
			TransformationType: models.TransformationCSVToJSON,
		},
	}, nil
}
