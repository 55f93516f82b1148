package dashboard

import (
	"context"

	"github.com/wisetech/console/internal/models"
)

// CreateUser creates a user and appends it to the local list on success.
func (c *Controller) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	api, seq := c.begin(EntityUsers)
	user, err := api.CreateUser(ctx, in)
	return user, c.finish(EntityUsers, seq, err, func() {
		c.users = append(c.users, *user)
	})
}

// UpdateUser edits a user and replaces the matching local entry on success.
func (c *Controller) UpdateUser(ctx context.Context, id int, in models.UserUpdate) (*models.User, error) {
	api, seq := c.begin(EntityUsers)
	user, err := api.UpdateUser(ctx, id, in)
	return user, c.finish(EntityUsers, seq, err, func() {
		for i := range c.users {
			if c.users[i].ID == id {
				c.users[i] = *user
				break
			}
		}
	})
}

// DeleteUser removes a user remotely and filters it out of the local list,
// preserving the relative order of the rest. The confirmed flag must be set;
// declining aborts with no state change.
func (c *Controller) DeleteUser(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	api, seq := c.begin(EntityUsers)
	err := api.DeleteUser(ctx, id)
	return c.finish(EntityUsers, seq, err, func() {
		kept := c.users[:0]
		for _, u := range c.users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		c.users = kept
	})
}

// CreateGadget normalizes the form (price coercion, release-date expansion)
// and appends the created gadget to the local list on success.
func (c *Controller) CreateGadget(ctx context.Context, form GadgetForm) (*models.Gadget, error) {
	api, seq := c.begin(EntityGadgets)
	gadget, err := api.CreateGadget(ctx, form.Normalize(c.now()))
	return gadget, c.finish(EntityGadgets, seq, err, func() {
		c.gadgets = append(c.gadgets, *gadget)
	})
}

// UpdateGadget normalizes the form and replaces the matching local entry on
// success.
func (c *Controller) UpdateGadget(ctx context.Context, id int, form GadgetForm) (*models.Gadget, error) {
	api, seq := c.begin(EntityGadgets)
	gadget, err := api.UpdateGadget(ctx, id, form.Normalize(c.now()))
	return gadget, c.finish(EntityGadgets, seq, err, func() {
		for i := range c.gadgets {
			if c.gadgets[i].ID == id {
				c.gadgets[i] = *gadget
				break
			}
		}
	})
}

// DeleteGadget removes a gadget remotely and filters it out of the local
// list. Requires explicit confirmation.
func (c *Controller) DeleteGadget(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	api, seq := c.begin(EntityGadgets)
	err := api.DeleteGadget(ctx, id)
	return c.finish(EntityGadgets, seq, err, func() {
		kept := c.gadgets[:0]
		for _, g := range c.gadgets {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		c.gadgets = kept
	})
}

// UpdateReview edits a review through the admin endpoint and replaces the
// matching local entry on success. The rating is clamped to 1..5 and blank
// pros/cons travel as null.
func (c *Controller) UpdateReview(ctx context.Context, id int, in models.ReviewInput) (*models.Review, error) {
	in.Normalize()
	api, seq := c.begin(EntityReviews)
	review, err := api.UpdateAdminReview(ctx, id, in)
	return review, c.finish(EntityReviews, seq, err, func() {
		c.replaceReviewLocked(*review)
	})
}

// DeleteReview removes a review remotely and filters exactly the matching
// entry out of the local list. Requires explicit confirmation.
func (c *Controller) DeleteReview(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	api, seq := c.begin(EntityReviews)
	err := api.DeleteAdminReview(ctx, id)
	return c.finish(EntityReviews, seq, err, func() {
		kept := c.reviews[:0]
		for _, r := range c.reviews {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		c.reviews = kept
	})
}

// ApproveReview flips a review to Approved and patches the local entry.
func (c *Controller) ApproveReview(ctx context.Context, id int) (*models.Review, error) {
	api, seq := c.begin(EntityReviews)
	review, err := api.ApproveReview(ctx, id)
	return review, c.finish(EntityReviews, seq, err, func() {
		c.replaceReviewLocked(*review)
	})
}

// RejectReview flips a review to Rejected and patches the local entry.
func (c *Controller) RejectReview(ctx context.Context, id int) (*models.Review, error) {
	api, seq := c.begin(EntityReviews)
	review, err := api.RejectReview(ctx, id)
	return review, c.finish(EntityReviews, seq, err, func() {
		c.replaceReviewLocked(*review)
	})
}

// replaceReviewLocked swaps in an updated review while keeping display
// fields the moderation endpoints do not echo back.
func (c *Controller) replaceReviewLocked(updated models.Review) {
	for i := range c.reviews {
		if c.reviews[i].ID == updated.ID {
			if updated.GadgetName == "" {
				updated.GadgetName = c.reviews[i].GadgetName
			}
			if updated.UserName == "" {
				updated.UserName = c.reviews[i].UserName
			}
			c.reviews[i] = updated
			return
		}
	}
}
