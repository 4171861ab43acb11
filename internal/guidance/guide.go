package guidance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/pkg/models"
)

const systemPersona = "You are Aurelius, a friendly guide for an informal hearing-comfort check. " +
	"You are not a clinician. Never give medical advice or a diagnosis, and suggest a qualified professional for any health concern."

const welcomePrompt = "Write a short welcome for the listener. Explain that we are about to play a series of tones to build a personal " +
	"listening profile, that they should answer 'y' if they hear a tone and 'n' if they do not, " +
	"and that they should sit in a quiet room wearing their earbuds or headphones at a comfortable volume."

const explainPrompt = "Here is the listener's profile. Each entry is the boost in decibels applied at a frequency in Hz: %s. " +
	"Explain in plain words what it means. For example a large boost at 4000 Hz means high-pitched sounds were hard to hear. " +
	"Finish by telling them the profile is saved and ready for 'run' mode."

// Guide produces the human-facing messages around a calibration.
// Failures never interrupt the caller; they come back as an inline message.
type Guide struct {
	gen   TextGenerator
	model string
	cache repository.AIInteractionRepository
}

// NewGuide creates a guide. cache may be nil.
func NewGuide(gen TextGenerator, model string, cache repository.AIInteractionRepository) *Guide {
	return &Guide{gen: gen, model: model, cache: cache}
}

// Welcome returns the message shown before the sweep starts
func (g *Guide) Welcome(ctx context.Context) string {
	reply, err := g.gen.Generate(ctx, systemPersona, welcomePrompt)
	if err != nil {
		return unavailable(err)
	}
	return reply
}

// ExplainResults describes a profile in plain language. The boolean reports
// whether the answer came from the cache.
func (g *Guide) ExplainResults(ctx context.Context, profile models.HearingProfile) (string, bool) {
	doc, err := profile.MarshalJSON()
	if err != nil {
		return unavailable(err), false
	}
	hash := ProfileHash(doc)

	if g.cache != nil {
		cached, err := g.cache.GetAIInteraction(ctx, hash, g.model)
		switch {
		case err == nil:
			log.Debug().Str("profile_hash", hash).Msg("Using cached explanation")
			return cached.Answer, true
		case !errors.Is(err, repository.ErrNotFound):
			log.Warn().Err(err).Msg("Explanation cache lookup failed")
		}
	}

	prompt := fmt.Sprintf(explainPrompt, doc)
	reply, err := g.gen.Generate(ctx, systemPersona, prompt)
	if err != nil {
		return unavailable(err), false
	}

	if g.cache != nil {
		err := g.cache.CreateAIInteraction(ctx, &models.AIInteraction{
			ID:          uuid.New().String(),
			ProfileHash: hash,
			Prompt:      prompt,
			Answer:      reply,
			ModelUsed:   g.model,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to cache explanation")
		}
	}

	return reply, false
}

// ProfileHash identifies a canonical profile document
func ProfileHash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

func unavailable(err error) string {
	log.Warn().Err(err).Msg("Guidance service unavailable")
	return fmt.Sprintf("Error contacting guidance service: %v. Is the model server running?", err)
}
