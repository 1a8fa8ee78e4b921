package dispatch

import (
	"net/http"
	"strconv"
	"time"

	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/raywall/fast-mock-server/pkg/metrics"
	"github.com/rs/zerolog"
)

// pick escolhe o desfecho da requisição.
func (e *Engine) pick(def config.RouteDefinition) config.Outcome {
	if !e.opts.Randomize || !def.Paired() {
		return config.OutcomeSuccess
	}
	if e.coin() {
		return config.OutcomeSuccess
	}
	return config.OutcomeError
}

func (e *Engine) newHandler(def config.RouteDefinition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome := e.pick(def)
		resp := def.Resolve(outcome)

		logger := zerolog.Ctx(r.Context())
		event := logger.Info().
			Int("status", resp.Status).
			Str("method", string(def.Method)).
			Str("path", def.Path)
		if def.Paired() {
			event = event.Str("outcome", outcome.String())
		}
		if def.DelayMS > 0 {
			event = event.Int("delay_ms", def.DelayMS)
		}
		event.Msg(def.Summary(resp.Status))

		if def.DelayMS > 0 {
			timer := time.NewTimer(def.Delay())
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-r.Context().Done():
				logger.Warn().
					Err(r.Context().Err()).
					Str("path", def.Path).
					Msg("cliente desconectou durante o delay, resposta descartada")
				return
			}
		}

		sendResponse(w, resp, logger)
		e.record(def, resp, outcome, logger)
	}
}

func sendResponse(w http.ResponseWriter, resp config.Response, logger *zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)

	if !bodyAllowed(resp.Status) {
		return
	}

	body := resp.Body
	if len(body) == 0 {
		body = []byte("null")
	}
	if _, err := w.Write(body); err != nil {
		logger.Error().Err(err).Msg("erro ao escrever resposta")
	}
}

// bodyAllowed segue a RFC 9110: 204 e 304 não carregam corpo.
func bodyAllowed(status int) bool {
	return status != http.StatusNoContent && status != http.StatusNotModified
}

func (e *Engine) record(def config.RouteDefinition, resp config.Response, outcome config.Outcome, logger *zerolog.Logger) {
	tags := []string{
		"path:" + def.Path,
		"method:" + string(def.Method),
		"status:" + strconv.Itoa(resp.Status),
		"outcome:" + outcome.String(),
	}
	if err := e.metrics.Count(metrics.MetricRequests, 1, tags); err != nil {
		logger.Debug().Err(err).Msg("falha ao enviar métrica")
	}
	if def.DelayMS > 0 {
		if err := e.metrics.Histogram(metrics.MetricDelay, float64(def.DelayMS), tags); err != nil {
			logger.Debug().Err(err).Msg("falha ao enviar métrica")
		}
	}
}
