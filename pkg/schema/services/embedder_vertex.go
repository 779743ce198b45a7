package services

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/verse2vision-story-api/pkg/schema/config"
)

const vertexBatchLimit = 250

// VertexEmbedder implements Embedder using Google Cloud Vertex AI
type VertexEmbedder struct {
	cfg      *config.Config
	client   *aiplatform.PredictionClient
	endpoint string
}

// NewVertexEmbedder creates a new Vertex AI embedder
func NewVertexEmbedder(ctx context.Context, cfg *config.Config) (*VertexEmbedder, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID is required for Vertex AI embeddings")
	}

	clientEndpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.GCPLocation)
	client, err := aiplatform.NewPredictionClient(ctx, option.WithEndpoint(clientEndpoint))
	if err != nil {
		return nil, fmt.Errorf("create Vertex AI client: %w", err)
	}

	endpoint := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
		cfg.GCPProjectID, cfg.GCPLocation, cfg.VertexModel)

	return &VertexEmbedder{
		cfg:      cfg,
		client:   client,
		endpoint: endpoint,
	}, nil
}

// Close closes the Vertex AI client
func (e *VertexEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Embed generates an embedding for a single text
func (e *VertexEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float64, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text}, taskType)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, splitting requests that
// exceed the Vertex per-call limit
func (e *VertexEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType TaskType) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	var all [][]float64
	for start := 0; start < len(texts); start += vertexBatchLimit {
		end := min(start+vertexBatchLimit, len(texts))
		batch, err := e.predict(ctx, texts[start:end], taskType)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	return all, nil
}

func (e *VertexEmbedder) predict(ctx context.Context, texts []string, taskType TaskType) ([][]float64, error) {
	instances := make([]*structpb.Value, len(texts))
	for i, text := range texts {
		instance, err := structpb.NewStruct(map[string]interface{}{
			"content":   text,
			"task_type": string(taskType),
		})
		if err != nil {
			return nil, fmt.Errorf("create instance: %w", err)
		}
		instances[i] = structpb.NewStructValue(instance)
	}

	resp, err := e.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  e.endpoint,
		Instances: instances,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex AI prediction failed: %w", err)
	}

	embeddings := make([][]float64, len(resp.Predictions))
	for i, prediction := range resp.Predictions {
		embedding, err := extractEmbedding(prediction)
		if err != nil {
			return nil, fmt.Errorf("prediction %d: %w", i, err)
		}
		if e.cfg.EmbeddingDimensions > 0 && len(embedding) != e.cfg.EmbeddingDimensions {
			return nil, fmt.Errorf("prediction %d: embedding has %d dimensions, expected %d",
				i, len(embedding), e.cfg.EmbeddingDimensions)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// extractEmbedding pulls the embeddings.values list out of a prediction struct.
func extractEmbedding(prediction *structpb.Value) ([]float64, error) {
	predStruct := prediction.GetStructValue()
	if predStruct == nil {
		return nil, fmt.Errorf("unexpected prediction format")
	}

	embeddingsField := predStruct.Fields["embeddings"]
	if embeddingsField == nil {
		return nil, fmt.Errorf("no embeddings field in prediction")
	}

	embStruct := embeddingsField.GetStructValue()
	if embStruct == nil {
		return nil, fmt.Errorf("unexpected embeddings format")
	}

	valuesField := embStruct.Fields["values"]
	if valuesField == nil {
		return nil, fmt.Errorf("no values field in embeddings")
	}

	valuesList := valuesField.GetListValue()
	if valuesList == nil {
		return nil, fmt.Errorf("unexpected values format")
	}

	embedding := make([]float64, len(valuesList.Values))
	for j, v := range valuesList.Values {
		embedding[j] = v.GetNumberValue()
	}
	return embedding, nil
}
