package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/models"
)

// ReviewsCmd reads and writes product reviews.
type ReviewsCmd struct {
	List    ReviewsListCmd    `cmd:"" help:"List reviews of a product"`
	Average ReviewsAverageCmd `cmd:"" help:"Show the average rating of a product"`
	Mine    ReviewsMineCmd    `cmd:"" help:"List my reviews"`
	Add     ReviewsAddCmd     `cmd:"" help:"Review a product"`
	Delete  ReviewsDeleteCmd  `cmd:"" help:"Delete one of my reviews"`
}

type ReviewsListCmd struct {
	ProductID int `arg:"" help:"Product id"`
}

func (c *ReviewsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/products")
	if err != nil {
		return err
	}

	reviews, err := app.API.Reviews.ForProduct(ctx, c.ProductID)
	if err != nil {
		return err
	}

	return printReviews(globals, reviews)
}

func printReviews(globals *Globals, reviews []models.Review) error {
	if len(reviews) == 0 {
		fmt.Fprintln(globals.out(), "No reviews yet.")
		return nil
	}

	w := newTable(globals.out(), "ID", "PRODUCT", "RATING", "BY", "COMMENT")
	for _, r := range reviews {
		by := ""
		if r.User != nil {
			by = r.User.FullName()
		}
		fmt.Fprintf(w, "%d\t%d\t%d/5\t%s\t%s\n", r.ReviewID, r.ProductID, r.Rating, by, truncate(r.Comment, 50))
	}
	return w.Flush()
}

type ReviewsAverageCmd struct {
	ProductID int `arg:"" help:"Product id"`
}

func (c *ReviewsAverageCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/products")
	if err != nil {
		return err
	}

	avg, err := app.API.Reviews.Average(ctx, c.ProductID)
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "%.1f\n", avg)

	return nil
}

type ReviewsMineCmd struct{}

func (c *ReviewsMineCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/profile")
	if err != nil {
		return err
	}

	reviews, err := app.API.Reviews.Mine(ctx)
	if err != nil {
		return err
	}

	return printReviews(globals, reviews)
}

type ReviewsAddCmd struct {
	ProductID int    `arg:"" help:"Product id"`
	Rating    int    `help:"Rating from 1 to 5" required:""`
	Comment   string `help:"Review text"`
}

func (c *ReviewsAddCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, fmt.Sprintf("/products/%d", c.ProductID))
	if err != nil {
		return err
	}

	r, err := app.API.Reviews.Create(ctx, models.ReviewInput{
		ProductID: c.ProductID,
		Rating:    c.Rating,
		Comment:   c.Comment,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Review %d submitted\n", r.ReviewID)

	return nil
}

type ReviewsDeleteCmd struct {
	ID int `arg:"" help:"Review id"`
}

func (c *ReviewsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/profile")
	if err != nil {
		return err
	}

	if err := app.API.Reviews.Delete(ctx, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Review %d deleted\n", c.ID)

	return nil
}
