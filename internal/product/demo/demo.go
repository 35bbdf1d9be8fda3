// Package demo runs the console walkthrough of the catalog operations.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"github.com/shopspring/decimal"
)

type step struct {
	title string
	run   func(ctx context.Context, w io.Writer, svc service.ProductService) error
}

var steps = []step{
	{"LIST ALL PRODUCTS", listAll},
	{"GET PRODUCT BY ID", getByID},
	{"CREATE PRODUCT", create},
	{"UPDATE PRODUCT", update},
	{"DELETE PRODUCT", deleteByID},
	{"ERROR HANDLING", errorHandling},
}

// Run walks svc through the catalog operations and prints the outcome of each to w.
// Rejected operations in the error handling step are printed; any other failure stops the walkthrough.
func Run(ctx context.Context, w io.Writer, svc service.ProductService) error {
	fmt.Fprintln(w, "=== Layered architecture - product catalog ===")
	fmt.Fprintln(w)
	for i, s := range steps {
		heading := fmt.Sprintf("%d. %s:", i+1, s.title)
		fmt.Fprintln(w, heading)
		fmt.Fprintln(w, strings.Repeat("-", len(heading)))
		if err := s.run(ctx, w, svc); err != nil {
			return fmt.Errorf("%s: %w", strings.ToLower(s.title), err)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func listAll(ctx context.Context, w io.Writer, svc service.ProductService) error {
	products, err := svc.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Fprintf(w, "   %s\n", p)
	}
	return nil
}

func getByID(ctx context.Context, w io.Writer, svc service.ProductService) error {
	product, err := svc.FindByID(ctx, 1)
	if err != nil {
		return err
	}
	if product != nil {
		fmt.Fprintf(w, "   Found: %s\n", product)
	}
	return nil
}

func create(ctx context.Context, w io.Writer, svc service.ProductService) error {
	product, err := svc.Create(ctx, service.ProductCreateDto{Name: "Monitor 4K", Price: decimal.RequireFromString("299.99")})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   Created: %s\n", product)
	return nil
}

func update(ctx context.Context, w io.Writer, svc service.ProductService) error {
	product, err := svc.Update(ctx, 2, service.ProductUpdateDto{Name: "Mouse Gaming Pro", Price: decimal.RequireFromString("45.99")})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   Updated: %s\n", product)
	return nil
}

func deleteByID(ctx context.Context, w io.Writer, svc service.ProductService) error {
	deleted, err := svc.DeleteByID(ctx, 3)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintln(w, "   Product with ID 3 deleted.")
	}
	return nil
}

func errorHandling(ctx context.Context, w io.Writer, svc service.ProductService) error {
	_, err := svc.Create(ctx, service.ProductCreateDto{Name: "Producto Inválido", Price: decimal.NewFromInt(-10)})
	if err := report(w, err); err != nil {
		return err
	}

	product, err := svc.FindByID(ctx, 999)
	if err := report(w, err); err != nil {
		return err
	}
	if err == nil && product == nil {
		fmt.Fprintln(w, "   Not found: Product with ID 999 does not exist.")
	}

	_, err = svc.Update(ctx, 999, service.ProductUpdateDto{Name: "Producto Inexistente", Price: decimal.NewFromInt(100)})
	return report(w, err)
}

// report prints a rejected operation and passes through anything that is not a domain error.
func report(w io.Writer, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, perrors.ErrInvalidArgument), errors.Is(err, perrors.ErrProductNotFound), errors.Is(err, perrors.ErrEmptyCatalog):
		fmt.Fprintf(w, "   Rejected: %s\n", perrors.Message(err))
		return nil
	default:
		return err
	}
}
