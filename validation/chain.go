package validation

import (
	"github.com/sirupsen/logrus"
)

// Validator contributes approval and/or rejection reasons to a context.
// "Approver" and "Rejector" are naming conventions, not distinct types.
type Validator interface {
	Name() string
	Contribute(ctx *Context) error
}

// Chain runs validators strictly in order, each to completion before the
// next starts. Ordering is load-bearing: the last decision made along the
// chain is the final verdict, so override validators must run last.
type Chain struct {
	validators []Validator
	log        *logrus.Entry
}

// NewChain creates a chain from an ordered validator list.
func NewChain(validators ...Validator) *Chain {
	return &Chain{
		validators: validators,
		log:        logrus.WithField("component", "validation"),
	}
}

// Run evaluates the chain. A validator that returns an error contributes
// nothing: any reasons it added and any verdict change it made are rolled
// back, the error is logged and the chain continues.
func (c *Chain) Run(ctx *Context) {
	for _, v := range c.validators {
		approvals := len(ctx.ApprovalReasons)
		rejections := len(ctx.RejectionReasons)
		verdict := ctx.verdict

		if err := v.Contribute(ctx); err != nil {
			ctx.ApprovalReasons = ctx.ApprovalReasons[:approvals]
			ctx.RejectionReasons = ctx.RejectionReasons[:rejections]
			ctx.verdict = verdict
			c.log.WithFields(logrus.Fields{
				"validator": v.Name(),
				"user_id":   ctx.Member.User.ID,
				"error":     err,
			}).Warn("Validator failed; contributing nothing")
		}
	}
}
