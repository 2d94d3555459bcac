package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"carbonCare/business/attribution"
	"carbonCare/business/normalizer"
	"carbonCare/domain"
	"carbonCare/pkg/logger"
)

var ErrModelUnavailable = errors.New("Model not loaded")

// ---- Model contracts ----

type Predictor interface {
	Predict(ctx context.Context, vec domain.FeatureVector, categorical []domain.FeatureKey) (float64, error)
}

// Explainer returns one signed contribution per feature, aligned with
// the canonical column order.
type Explainer interface {
	Attribute(ctx context.Context, vec domain.FeatureVector) ([]float64, error)
}

// ConcurrencySafe is implemented by models that tolerate parallel calls.
// Models that do not implement it are serialized behind one lock.
type ConcurrencySafe interface {
	ConcurrencySafe() bool
}

// Models is the read-only model pair loaded once at startup.
type Models struct {
	Predictor Predictor
	Explainer Explainer // nil: attribution permanently unavailable
	Loaded    bool

	// force one lock around predict and attribute
	SerializeCalls bool
}

type Aggregator interface {
	Aggregate(vec domain.FeatureVector, scores []float64) (attribution.Result, error)
}

type Synthesizer interface {
	Synthesize(raw domain.RawPayload, breakdown []domain.CategoryBreakdown, topFeatures []domain.TopFeature) []domain.Recommendation
}

// ---- Attribution outcome ----

type AttributionStatus int

const (
	AttributionOK AttributionStatus = iota
	AttributionNoSignal
	AttributionUnavailable
	AttributionContractViolation
)

func (s AttributionStatus) String() string {
	switch s {
	case AttributionOK:
		return "ok"
	case AttributionNoSignal:
		return "no_signal"
	case AttributionUnavailable:
		return "unavailable"
	case AttributionContractViolation:
		return "contract_violation"
	default:
		return "unknown"
	}
}

// Explanation is the outcome of attributing one prediction. Result is
// always usable; it is empty unless Status is AttributionOK.
type Explanation struct {
	Result attribution.Result
	Status AttributionStatus
	Err    error
}

// ---- Service ----

type PredictionService struct {
	predictor   Predictor
	explainer   Explainer
	loaded      bool
	aggregator  Aggregator
	synthesizer Synthesizer
	categorical []domain.FeatureKey

	// guards predictor and explainer calls only, never the whole pipeline
	modelMu *sync.Mutex
}

func NewPredictionService(models Models, aggregator Aggregator, synthesizer Synthesizer) *PredictionService {
	s := &PredictionService{
		predictor:   models.Predictor,
		explainer:   models.Explainer,
		loaded:      models.Loaded && models.Predictor != nil,
		aggregator:  aggregator,
		synthesizer: synthesizer,
		categorical: domain.CategoricalFeatures(),
	}

	if models.SerializeCalls || !isConcurrencySafe(models.Predictor) ||
		(models.Explainer != nil && !isConcurrencySafe(models.Explainer)) {
		s.modelMu = &sync.Mutex{}
	}

	return s
}

func isConcurrencySafe(v any) bool {
	cs, ok := v.(ConcurrencySafe)
	return ok && cs.ConcurrencySafe()
}

func (s *PredictionService) Health() domain.HealthStatus {
	return domain.HealthStatus{
		Status:        "healthy",
		ModelLoaded:   s.loaded,
		ShapAvailable: s.loaded && s.explainer != nil,
	}
}

// Predict scores one raw payload and explains the score. Only a missing
// or failing predictor fails the request; attribution problems degrade
// to an empty breakdown.
func (s *PredictionService) Predict(ctx context.Context, raw domain.RawPayload) (domain.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("context error: %w", err)
	}
	if !s.loaded {
		PredictionsTotal.WithLabelValues(outcomeUnavailable).Inc()
		return domain.PredictionResult{}, ErrModelUnavailable
	}

	tid := TraceIDFromContext(ctx)
	vec := normalizer.Normalize(raw)

	score, err := s.predict(ctx, vec)
	if err != nil {
		PredictionsTotal.WithLabelValues(outcomeError).Inc()
		return domain.PredictionResult{}, fmt.Errorf("predict: %w", err)
	}
	// footprint is a magnitude regardless of the regressor's sign
	prediction := math.Abs(score)

	expl := s.Explain(ctx, vec)
	if expl.Status != AttributionOK {
		s.logDegraded(tid, expl)
	}

	recs := s.synthesizer.Synthesize(raw, expl.Result.Categories, expl.Result.TopFeatures)

	outcome := outcomeOK
	if expl.Status == AttributionUnavailable || expl.Status == AttributionContractViolation {
		outcome = outcomeDegraded
	}
	PredictionsTotal.WithLabelValues(outcome).Inc()

	logger.Debug("prediction_served",
		"trace_id", tid,
		"prediction", prediction,
		"attribution", expl.Status.String(),
		"categories", len(expl.Result.Categories),
		"top_features", len(expl.Result.TopFeatures),
		"recommendations", len(recs),
	)

	return domain.PredictionResult{
		Prediction: prediction,
		Insights: domain.Insights{
			CategoryBreakdown:     expl.Result.Categories,
			TopIndividualFeatures: expl.Result.TopFeatures,
			Recommendations:       recs,
		},
	}, nil
}

// Explain attributes the prediction for vec and aggregates it.
func (s *PredictionService) Explain(ctx context.Context, vec domain.FeatureVector) Explanation {
	empty := attribution.Result{
		Categories:  []domain.CategoryBreakdown{},
		TopFeatures: []domain.TopFeature{},
	}

	if s.explainer == nil {
		return Explanation{Result: empty, Status: AttributionUnavailable, Err: attribution.ErrAttributionUnavailable}
	}

	scores, err := s.attribute(ctx, vec)
	if err != nil {
		return Explanation{
			Result: empty,
			Status: AttributionUnavailable,
			Err:    fmt.Errorf("%w: %v", attribution.ErrAttributionUnavailable, err),
		}
	}

	res, err := s.aggregator.Aggregate(vec, scores)
	if err != nil {
		var cv *attribution.ContractViolationError
		if errors.As(err, &cv) {
			return Explanation{Result: empty, Status: AttributionContractViolation, Err: err}
		}
		return Explanation{Result: empty, Status: AttributionUnavailable, Err: err}
	}
	if res.Empty() {
		return Explanation{Result: res, Status: AttributionNoSignal}
	}

	return Explanation{Result: res, Status: AttributionOK}
}

func (s *PredictionService) logDegraded(tid string, expl Explanation) {
	switch expl.Status {
	case AttributionContractViolation:
		AttributionDegradedTotal.WithLabelValues(reasonContractViolation).Inc()
		var cv *attribution.ContractViolationError
		if errors.As(expl.Err, &cv) {
			logger.Error("contract_violation", "trace_id", tid, "features", cv.Features, "scores", cv.Scores)
			return
		}
		logger.Error("contract_violation", "trace_id", tid, expl.Err)
	case AttributionUnavailable:
		reason := reasonExplainerError
		if s.explainer == nil {
			reason = reasonExplainerAbsent
		}
		AttributionDegradedTotal.WithLabelValues(reason).Inc()
		if reason == reasonExplainerError {
			logger.Warn("attribution_degraded", "trace_id", tid, "reason", reason, expl.Err)
		}
	case AttributionNoSignal:
		AttributionDegradedTotal.WithLabelValues(reasonNoAttributionSignal).Inc()
		logger.Debug("attribution_degraded", "trace_id", tid, "reason", reasonNoAttributionSignal)
	}
}

func (s *PredictionService) predict(ctx context.Context, vec domain.FeatureVector) (float64, error) {
	if s.modelMu != nil {
		s.modelMu.Lock()
		defer s.modelMu.Unlock()
	}
	return s.predictor.Predict(ctx, vec, s.categorical)
}

func (s *PredictionService) attribute(ctx context.Context, vec domain.FeatureVector) ([]float64, error) {
	if s.modelMu != nil {
		s.modelMu.Lock()
		defer s.modelMu.Unlock()
	}
	return s.explainer.Attribute(ctx, vec)
}
