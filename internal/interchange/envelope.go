package interchange

import (
	"fmt"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// Segment tags located by the extractor.
const (
	x12TransactionSetHeaderTag = "ST"
	edifactGroupHeaderTag      = "UNG"
	edifactMessageHeaderTag    = "UNH"
)

// ISA element positions, counting the tag as index 0.
const (
	isaIndexSegmentID = iota
	isaIndexAuthInfoQualifier
	isaIndexAuthInfo
	isaIndexSecurityInfoQualifier
	isaIndexSecurityInfo
	isaIndexSenderIDQualifier
	isaIndexSenderID
)

// stIndexTransactionSetCode is the ST element carrying the transaction set
// identifier (e.g. "850").
const stIndexTransactionSetCode = 1

// EDIFACT element positions, counting the tag as index 0. Both are
// composites whose first component is the value of interest.
const (
	unbIndexSender            = 2
	unhIndexMessageIdentifier = 2
)

// SenderID returns the interchange sender identifier.
//
// For X12 it is ISA06, trimmed of its fixed-width padding. For EDIFACT it is
// the first component of UNB02, the UNB being at env.HeaderIndex.
func SenderID(segments []domain.Segment, env domain.Envelope) (string, error) {
	switch env.Dialect {
	case domain.DialectX12:
		return headerElement(segments, 0, x12HeaderTag, isaIndexSenderID, env)
	case domain.DialectEDIFACT:
		return headerElement(segments, env.HeaderIndex, edifactHeaderTag, unbIndexSender, env)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnrecognizedDialect, env.Dialect)
	}
}

// MessageType returns the transaction set or message type code.
//
// For X12 it is ST01 of the first ST segment. For EDIFACT it is the first
// component of UNH02; the UNH is expected right after the UNB header, and the
// first UNH after it is used when a UNG group header intervenes.
func MessageType(segments []domain.Segment, env domain.Envelope) (string, error) {
	switch env.Dialect {
	case domain.DialectX12:
		for _, seg := range segments {
			if seg.Tag() != x12TransactionSetHeaderTag {
				continue
			}
			code, ok := seg.Element(stIndexTransactionSetCode)
			if !ok || code == "" {
				return "", fmt.Errorf("%w: %s%02d", domain.ErrSegmentNotFound,
					x12TransactionSetHeaderTag, stIndexTransactionSetCode)
			}
			return code, nil
		}
		return "", fmt.Errorf("%w: %s", domain.ErrSegmentNotFound, x12TransactionSetHeaderTag)

	case domain.DialectEDIFACT:
		idx := env.HeaderIndex + 1
		if idx < len(segments) && segments[idx].Tag() == edifactGroupHeaderTag {
			idx++
		}
		for ; idx < len(segments); idx++ {
			if segments[idx].Tag() == edifactMessageHeaderTag {
				return headerElement(segments, idx, edifactMessageHeaderTag, unhIndexMessageIdentifier, env)
			}
		}
		return "", fmt.Errorf("%w: %s", domain.ErrSegmentNotFound, edifactMessageHeaderTag)

	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnrecognizedDialect, env.Dialect)
	}
}

// headerElement returns element elemIdx of the segment at segIdx, which must
// carry tag. EDIFACT values are reduced to their first component.
func headerElement(segments []domain.Segment, segIdx int, tag string, elemIdx int, env domain.Envelope) (string, error) {
	if segIdx >= len(segments) || segments[segIdx].Tag() != tag {
		return "", fmt.Errorf("%w: %s at position %d", domain.ErrSegmentNotFound, tag, segIdx)
	}
	value, ok := segments[segIdx].Element(elemIdx)
	if ok && env.Dialect == domain.DialectEDIFACT {
		value = Component(value, env.Delimiters, 0)
	}
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s%02d", domain.ErrSegmentNotFound, tag, elemIdx)
	}
	return value, nil
}
