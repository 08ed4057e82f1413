package invariant

import "errors"

// Kind is the coarse, user-visible error taxonomy the adapter surfaces to
// its host. Internals wrap a more specific cause; callers branch on Kind.
type Kind int

const (
	KindInvalidMints Kind = iota
	KindMissingAccount
	KindDecodeError
	KindStaleCache
	KindInsufficientLiquidity
	KindInternalArithmetic
	KindInternalInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInvalidMints:
		return "invalid_mints"
	case KindMissingAccount:
		return "missing_account"
	case KindDecodeError:
		return "decode_error"
	case KindStaleCache:
		return "stale_cache"
	case KindInsufficientLiquidity:
		return "insufficient_liquidity"
	case KindInternalArithmetic:
		return "internal_arithmetic"
	case KindInternalInvariant:
		return "internal_invariant"
	default:
		return "unknown"
	}
}

// Error is the adapter's single error type; every failure surfaced across
// the package boundary carries a Kind so callers never need to string-match.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return "invariant: " + e.Kind.String()
	}
	return "invariant: " + e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Is lets callers write errors.Is(err, invariant.ErrStaleCache) and similar
// without reaching into the Kind field directly.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidMints          = &Error{Kind: KindInvalidMints}
	ErrMissingAccount        = &Error{Kind: KindMissingAccount}
	ErrDecodeError           = &Error{Kind: KindDecodeError}
	ErrStaleCache            = &Error{Kind: KindStaleCache}
	ErrInsufficientLiquidity = &Error{Kind: KindInsufficientLiquidity}
	ErrInternalArithmetic    = &Error{Kind: KindInternalArithmetic}
	ErrInternalInvariant     = &Error{Kind: KindInternalInvariant}
)

// errInvalidTickDivisibility is a fatal assertion: it must abort the call
// with a distinguishable error, never a process crash.
var errInvalidTickDivisibility = errors.New("current tick index is not divisible by tick spacing")

// errOverflowConsumed guards the accumulator: amount_in+fee_amount must
// never exceed what was left to consume.
var errOverflowConsumed = errors.New("amount consumed exceeds amount remaining")

var errPriceImpactOverflow = errors.New("price impact ratio overflowed its accuracy scale")
