package external

import (
	"context"
	"encoding/base64"
	"time"

	"campusvote/internal/config"
	"campusvote/internal/core/domain"
)

// FaceClient calls a compare-faces HTTP service
type FaceClient struct {
	http       *httpClient
	serviceURL string
	apiKey     string
}

type compareRequest struct {
	SourceImage         string  `json:"source_image"`
	TargetImage         string  `json:"target_image"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

type compareResponse struct {
	FaceMatches []struct {
		Similarity float64 `json:"similarity"`
	} `json:"face_matches"`
}

// NewFaceClient creates a new face comparison client
func NewFaceClient(cfg config.BiometricConfig, timeout time.Duration) *FaceClient {
	return &FaceClient{
		http:       newHTTPClient("campusvote-face", timeout),
		serviceURL: cfg.ServiceURL,
		apiKey:     cfg.APIKey,
	}
}

// Compare returns every face in probe that matched the reference.
// The service is asked for all matches so the threshold stays local.
func (f *FaceClient) Compare(ctx context.Context, reference, probe []byte) ([]domain.FaceCandidate, error) {
	req := compareRequest{
		SourceImage:         base64.StdEncoding.EncodeToString(reference),
		TargetImage:         base64.StdEncoding.EncodeToString(probe),
		SimilarityThreshold: 0,
	}

	var resp compareResponse
	if err := f.http.postJSON(ctx, f.serviceURL, map[string]string{"X-API-Key": f.apiKey}, req, &resp); err != nil {
		return nil, err
	}

	matches := make([]domain.FaceCandidate, 0, len(resp.FaceMatches))
	for _, m := range resp.FaceMatches {
		matches = append(matches, domain.FaceCandidate{Similarity: m.Similarity})
	}
	return matches, nil
}
