package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	grpcclient "github.com/abgdnv/catalog/pkg/client/grpc"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type remoteOptions struct {
	addr    string
	timeout time.Duration
}

// newAssociationsCmd groups the commands that call a running catalog over gRPC.
func newAssociationsCmd() *cobra.Command {
	opts := &remoteOptions{}
	cmd := &cobra.Command{
		Use:     "associations",
		Aliases: []string{"assoc"},
		Short:   "Manage product to store associations on a running catalog",
	}
	cmd.PersistentFlags().StringVar(&opts.addr, "addr", "localhost:9090", "gRPC address of the catalog")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "timeout of each call attempt")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <productId> <storeId>",
			Short: "Append a store to the product's association list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, storeID, err := parsePair(args)
				if err != nil {
					return err
				}
				return withClient(cmd, opts, func(ctx context.Context, c *grpcImpl.Client) (any, error) {
					return c.Add(ctx, storeID, productID)
				})
			},
		},
		&cobra.Command{
			Use:   "find <productId> <storeId>",
			Short: "Show an associated store",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, storeID, err := parsePair(args)
				if err != nil {
					return err
				}
				return withClient(cmd, opts, func(ctx context.Context, c *grpcImpl.Client) (any, error) {
					return c.Find(ctx, storeID, productID)
				})
			},
		},
		&cobra.Command{
			Use:   "list <productId>",
			Short: "List the stores associated to a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := parseUUIDs(args[:1])
				if err != nil {
					return err
				}
				return withClient(cmd, opts, func(ctx context.Context, c *grpcImpl.Client) (any, error) {
					return c.List(ctx, productID[0])
				})
			},
		},
		&cobra.Command{
			Use:   "replace <productId> [storeId...]",
			Short: "Overwrite the product's association list",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseUUIDs(args)
				if err != nil {
					return err
				}
				return withClient(cmd, opts, func(ctx context.Context, c *grpcImpl.Client) (any, error) {
					return c.Replace(ctx, ids[0], ids[1:])
				})
			},
		},
		&cobra.Command{
			Use:   "remove <productId> <storeId>",
			Short: "Remove a store from the product's association list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, storeID, err := parsePair(args)
				if err != nil {
					return err
				}
				return withClient(cmd, opts, func(ctx context.Context, c *grpcImpl.Client) (any, error) {
					return nil, c.Remove(ctx, storeID, productID)
				})
			},
		},
	)
	return cmd
}

// withClient dials the catalog, runs call and prints its result as JSON.
func withClient(cmd *cobra.Command, opts *remoteOptions, call func(ctx context.Context, c *grpcImpl.Client) (any, error)) error {
	conn, err := grpcclient.NewConn(opts.addr, opts.timeout, config.DefaultResilience())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	result, err := call(cmd.Context(), grpcImpl.NewClient(conn))
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func parsePair(args []string) (productID, storeID uuid.UUID, err error) {
	ids, err := parseUUIDs(args)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return ids[0], ids[1], nil
}

func parseUUIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
