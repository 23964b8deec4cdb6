// Package interchange reads the envelope of X12 and EDIFACT interchanges.
//
// It does not parse transaction sets against a grammar. It splits content
// into segments and elements, recognises the dialect from the leading
// header tag, and reads the handful of envelope values classification needs:
//
//   - Tokenize: segment and element splitting with release handling
//   - Component: composite splitting that honours released separators
//   - Detect: X12 (ISA) or EDIFACT (UNB, or UNA followed by UNB)
//   - SenderID: ISA06 or the first component of UNB02
//   - MessageType: ST01 or the first component of UNH02
//
// All functions are pure and safe for concurrent use.
package interchange
