// Package services contains business logic.
package services

import (
	"errors"
	"slices"

	"github.com/gourl/sqids/internal/metrics"
	"github.com/gourl/sqids/pkg/logger"
	"github.com/gourl/sqids/pkg/sqids"
)

// ErrNonCanonicalID is returned when an id decodes but is not the id this
// codec would produce for the decoded numbers.
var ErrNonCanonicalID = errors.New("id is not canonical")

// CodecService defines the encode and decode operations exposed to callers.
type CodecService interface {
	Encode(numbers []uint64) (string, error)
	Decode(id string) []uint64
	DecodeCanonical(id string) ([]uint64, error)
}

// CodecServiceImpl implements CodecService over a configured codec.
type CodecServiceImpl struct {
	codec *sqids.Sqids
	log   *logger.Logger
}

// NewCodecService creates a new CodecService.
func NewCodecService(codec *sqids.Sqids, log *logger.Logger) *CodecServiceImpl {
	if log == nil {
		log = logger.Nop()
	}
	return &CodecServiceImpl{codec: codec, log: log}
}

// Encode encodes numbers into an id.
func (s *CodecServiceImpl) Encode(numbers []uint64) (string, error) {
	id, err := s.codec.Encode(numbers)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, sqids.ErrMaxAttempts) {
			result = metrics.ResultExhausted
		}
		metrics.RecordEncode(result, 0)
		s.log.Warn("encode failed", "count", len(numbers), "error", err)
		return "", err
	}

	metrics.RecordEncode(metrics.ResultOK, len(id))
	return id, nil
}

// Decode decodes an id. Ids with characters outside the alphabet decode to
// an empty slice.
func (s *CodecServiceImpl) Decode(id string) []uint64 {
	numbers := s.codec.Decode(id)
	if len(numbers) == 0 {
		metrics.RecordDecode(metrics.ResultEmpty)
	} else {
		metrics.RecordDecode(metrics.ResultOK)
	}
	return numbers
}

// DecodeCanonical decodes an id and rejects it unless re-encoding the
// numbers gives back the same id. Padded variants, blocked ids and
// partially decodable ids all fail this check.
func (s *CodecServiceImpl) DecodeCanonical(id string) ([]uint64, error) {
	numbers := s.codec.Decode(id)

	canonical, err := s.codec.Encode(numbers)
	if err != nil || canonical != id {
		metrics.RecordDecode(metrics.ResultInvalid)
		s.log.Debug("rejected non-canonical id", "id", id, "canonical", canonical)
		return nil, ErrNonCanonicalID
	}

	metrics.RecordDecode(metrics.ResultOK)
	return slices.Clip(numbers), nil
}
