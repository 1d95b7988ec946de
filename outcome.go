package goSession

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind uint8

const (
	// OutcomeContinue lets the request proceed.
	OutcomeContinue OutcomeKind = iota
	// OutcomeRedirect halts the request with a redirect carrying a one-shot message.
	OutcomeRedirect
	// OutcomeError halts the request with an infrastructure failure.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContinue:
		return "continue"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// FlashKind is the query parameter a redirect message travels in.
type FlashKind uint8

const (
	FlashNone FlashKind = iota
	FlashError
	FlashWarning
	FlashSuccess
	FlashInfo
)

// Param returns the query parameter name, or "" for FlashNone.
func (f FlashKind) Param() string {
	switch f {
	case FlashError:
		return "error"
	case FlashWarning:
		return "warning"
	case FlashSuccess:
		return "success"
	case FlashInfo:
		return "info"
	default:
		return ""
	}
}

// CookieAction says what to do with the client credential carrier.
type CookieAction uint8

const (
	CookieKeep CookieAction = iota
	CookieSet
	CookieClear
)

// Outcome is the result of a guard, gate, login or logout step.
//
// Reason carries the taxonomy sentinel behind a redirect for logging and
// metrics; on OutcomeError it is the error to surface.
type Outcome struct {
	Kind     OutcomeKind
	Identity *Identity

	Target  string
	Flash   FlashKind
	Message string

	Cookie      CookieAction
	Token       string
	TokenMaxAge time.Duration

	Reason error
}

// Continue lets the request through with id, which may be nil.
func Continue(id *Identity) Outcome {
	return Outcome{Kind: OutcomeContinue, Identity: id}
}

// Redirect halts the request and sends the client to target.
func Redirect(target string, flash FlashKind, message string) Outcome {
	return Outcome{Kind: OutcomeRedirect, Target: target, Flash: flash, Message: message}
}

// Fail halts the request with err.
func Fail(err error) Outcome {
	return Outcome{Kind: OutcomeError, Reason: err}
}

// Because records the sentinel behind o.
func (o Outcome) Because(err error) Outcome {
	o.Reason = err
	return o
}

// ClearingCookie returns o with a cookie clear directive.
func (o Outcome) ClearingCookie() Outcome {
	o.Cookie = CookieClear
	o.Token = ""
	o.TokenMaxAge = 0
	return o
}

// SettingCookie returns o with a directive to store token for maxAge.
func (o Outcome) SettingCookie(token string, maxAge time.Duration) Outcome {
	o.Cookie = CookieSet
	o.Token = token
	o.TokenMaxAge = maxAge
	return o
}

// Terminal reports whether o stops the pipeline.
func (o Outcome) Terminal() bool {
	return o.Kind != OutcomeContinue
}

// Location renders the redirect URL with its message query-encoded. It
// returns "" for non-redirect outcomes.
func (o Outcome) Location() string {
	if o.Kind != OutcomeRedirect {
		return ""
	}
	param := o.Flash.Param()
	if param == "" || o.Message == "" {
		return o.Target
	}
	sep := "?"
	if strings.Contains(o.Target, "?") {
		sep = "&"
	}
	return o.Target + sep + url.Values{param: {o.Message}}.Encode()
}

// Step produces the next Outcome from the identity resolved so far.
type Step func(ctx context.Context, id *Identity) Outcome

// Chain runs steps in order and stops at the first terminal Outcome. A later
// Continue without identity keeps the earlier identity, and a later
// CookieKeep keeps an earlier cookie directive.
func Chain(ctx context.Context, steps ...Step) Outcome {
	acc := Continue(nil)
	for _, step := range steps {
		next := step(ctx, acc.Identity)
		if next.Identity == nil {
			next.Identity = acc.Identity
		}
		if next.Cookie == CookieKeep {
			next.Cookie = acc.Cookie
			next.Token = acc.Token
			next.TokenMaxAge = acc.TokenMaxAge
		}
		acc = next
		if acc.Terminal() {
			return acc
		}
	}
	return acc
}
