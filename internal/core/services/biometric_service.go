package services

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"log"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/config"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/metrics"
)

// BiometricService enrolls face references and matches probes against them
type BiometricService struct {
	refRepo  repositories.BiometricRepository
	comparer FaceComparer
	cfg      config.BiometricConfig
	timeout  time.Duration
}

// NewBiometricService creates a new biometric service
func NewBiometricService(
	refRepo repositories.BiometricRepository,
	comparer FaceComparer,
	cfg config.BiometricConfig,
	timeout time.Duration,
) *BiometricService {
	return &BiometricService{
		refRepo:  refRepo,
		comparer: comparer,
		cfg:      cfg,
		timeout:  timeout,
	}
}

// MatchResult is the outcome of one comparison
type MatchResult struct {
	IsMatch    bool    `json:"is_match"`
	Similarity float64 `json:"similarity"`
	FacesFound int     `json:"faces_found"`
	Threshold  float64 `json:"threshold"`
}

// Err maps a rejected comparison to its domain error, or nil for a match
func (r *MatchResult) Err() error {
	switch {
	case r.FacesFound == 0:
		return domain.ErrNoFaceMatch
	case !r.IsMatch:
		return domain.WithMessage(domain.ErrBelowThreshold, "similarity %.2f is below %.1f", r.Similarity, r.Threshold)
	default:
		return nil
	}
}

// Decide applies the threshold rule; no matched face is never a match
func Decide(matches []domain.FaceCandidate, threshold float64) *MatchResult {
	if len(matches) == 0 {
		return &MatchResult{Threshold: threshold}
	}
	best := matches[0].Similarity
	for _, m := range matches[1:] {
		if m.Similarity > best {
			best = m.Similarity
		}
	}
	return &MatchResult{
		IsMatch:    best >= threshold,
		Similarity: best,
		FacesFound: len(matches),
		Threshold:  threshold,
	}
}

// CheckImage rejects payloads that are too large or not a jpeg/png image
func (s *BiometricService) CheckImage(img []byte) (string, error) {
	if len(img) == 0 {
		return "", domain.WithMessage(domain.ErrBadImage, "image is empty")
	}
	if len(img) > s.cfg.MaxImageBytes {
		return "", domain.WithMessage(domain.ErrImageTooLarge, "image is %d bytes, maximum is %d", len(img), s.cfg.MaxImageBytes)
	}
	// full decode so a payload cut off after its header never reaches the comparer
	_, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return "", domain.Wrap(domain.ErrBadImage, err)
	}
	if format != "jpeg" && format != "png" {
		return "", domain.WithMessage(domain.ErrBadImage, "unsupported image format %q", format)
	}
	return format, nil
}

// Enroll stores the voter's single reference image
func (s *BiometricService) Enroll(ctx context.Context, voterID uint, img []byte) error {
	format, err := s.CheckImage(img)
	if err != nil {
		return err
	}

	exists, err := s.refRepo.Exists(ctx, voterID)
	if err != nil {
		return domain.Transient(err)
	}
	if exists {
		return domain.ErrAlreadyEnrolled
	}

	err = s.refRepo.Create(ctx, &models.BiometricReference{
		VoterID: voterID,
		Format:  format,
		Image:   img,
	})
	if err != nil {
		if repositories.IsDuplicate(err) {
			return domain.ErrAlreadyEnrolled
		}
		return domain.Transient(err)
	}

	log.Printf("✅ Biometric reference enrolled for voter %d (%s, %d bytes)", voterID, format, len(img))
	return nil
}

// Match compares probe against the enrolled reference.
// Each call may be billed upstream, so nothing here retries.
func (s *BiometricService) Match(ctx context.Context, voterID uint, probe []byte) (*MatchResult, error) {
	ref, err := s.refRepo.GetByVoterID(ctx, voterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrNoReferenceEnrolled
		}
		return nil, domain.Transient(err)
	}

	if _, err := s.CheckImage(probe); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	matches, err := s.comparer.Compare(cctx, ref.Image, probe)
	if err != nil {
		metrics.FaceMatches.WithLabelValues("upstream_error").Inc()
		if domain.KindOf(err) == domain.KindTransient {
			return nil, err
		}
		if cctx.Err() != nil {
			return nil, domain.Wrap(domain.ErrUpstreamTimeout, err)
		}
		return nil, domain.Wrap(domain.ErrUpstream, err)
	}

	result := Decide(matches, s.cfg.Threshold)
	switch {
	case result.FacesFound == 0:
		metrics.FaceMatches.WithLabelValues("no_face").Inc()
	case result.IsMatch:
		metrics.FaceMatches.WithLabelValues("match").Inc()
		metrics.FaceSimilarity.Observe(result.Similarity)
	default:
		metrics.FaceMatches.WithLabelValues("below_threshold").Inc()
		metrics.FaceSimilarity.Observe(result.Similarity)
	}

	log.Printf("🔎 Face match for voter %d: similarity=%.3f match=%v faces=%d",
		voterID, result.Similarity, result.IsMatch, result.FacesFound)
	return result, nil
}
