package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"xdao.co/arc89/box"
	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/bundle"
	"xdao.co/arc89/boxstore/storeregistry"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/resolver"
)

func (c *cli) openStore() (boxstore.Store, func() error, error) {
	st, closeFn, err := c.cfg.Store.OpenStore(storeregistry.UsageCLI)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Int("backends", len(c.cfg.Store.Backends)).Str("write_policy", c.cfg.Store.WritePolicy).Msg("store opened")
	return st, closeFn, nil
}

func (c *cli) withStore(fn func(boxstore.Store) error) error {
	st, closeFn, err := c.openStore()
	if err != nil {
		return err
	}
	err = fn(st)
	if cerr := closeFn(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (c *cli) resolveCmd() *cobra.Command {
	var asset, pointer, declared string
	cmd := &cobra.Command{
		Use:   "resolve --asset <id> [--url <pointer>] [--metadata-hash <hex>]",
		Short: "Resolve an asset's record through the configured store",
		Long: `Resolve follows the asset's metadata pointer (--url) to its record in the
configured store and verifies the record hash. Without --url, or when the
pointer is not an ARC-90 URI, the configured deployment is used.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAsset(asset)
			if err != nil {
				return err
			}
			info := resolver.AssetInfo{Exists: true, URL: pointer}
			if declared != "" {
				b, err := hex.DecodeString(declared)
				if err != nil {
					return usageError{err}
				}
				if info.MetadataHash, err = hashing.HashFromBytes(b); err != nil {
					return usageError{err}
				}
			}
			lookup := resolver.AssetLookupFunc(func(_ context.Context, got uint64) (resolver.AssetInfo, error) {
				if got != id {
					return resolver.AssetInfo{}, nil
				}
				return info, nil
			})

			ctx := cmd.Context()
			return c.withStore(func(st boxstore.Store) error {
				r := resolver.New(lookup, st, c.cfg.Deployment(), c.cfg.ResolverOptions())
				r.Params = c.cfg.Params()
				res, err := r.Resolve(ctx, id)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "uri:\t%s\n", res.URI)
				fmt.Fprintf(w, "source:\t%s\n", res.Source)
				printBox(cmd, res.Box)
				fmt.Fprintf(w, "hash_verified:\t%t\n", res.HashVerified)
				fmt.Fprintf(w, "override_used:\t%t\n", res.OverrideUsed)
				if res.VerifyErr != nil {
					log.Warn().Err(res.VerifyErr).Uint64("asset_id", id).Msg("verification failed")
				}
				return printBody(cmd, res.Box.Body)
			})
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "asset id")
	cmd.Flags().StringVar(&pointer, "url", "", "the asset's metadata pointer")
	cmd.Flags().StringVar(&declared, "metadata-hash", "", "the asset's declared metadata hash (hex)")
	_ = cmd.MarkFlagRequired("asset")
	return cmd
}

func (c *cli) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Read and write records in the configured store",
	}

	var (
		asset string
		round uint64
	)
	fl := &flagSet{}
	put := &cobra.Command{
		Use:   "put --asset <id> [--round <n>] [flags] <json-file>",
		Short: "Build a record from JSON and store it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := c.readMetadata(asset, args[0], fl)
			if err != nil {
				return err
			}
			p := c.cfg.Params()
			h, err := md.Header(p, round)
			if err != nil {
				return err
			}
			value, err := box.EncodeBox(h, md.Body, p.HeaderSize)
			if err != nil {
				return err
			}
			return c.withStore(func(st boxstore.Store) error {
				key := codec.AssetIDToBoxName(md.AssetID)
				if err := st.Put(cmd.Context(), key, value); err != nil {
					return err
				}
				log.Info().Uint64("asset_id", md.AssetID).Int("size", md.Body.Size()).Msg("record stored")
				fmt.Fprintln(cmd.OutOrStdout(), h.MetadataHash.Hex())
				return nil
			})
		},
	}
	put.Flags().StringVar(&asset, "asset", "", "asset id")
	put.Flags().Uint64Var(&round, "round", 0, "last modified round to record")
	_ = put.MarkFlagRequired("asset")
	fl.bind(put)

	var getAsset string
	get := &cobra.Command{
		Use:   "get --asset <id>",
		Short: "Fetch and print a stored record",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAsset(getAsset)
			if err != nil {
				return err
			}
			return c.withStore(func(st boxstore.Store) error {
				value, err := st.Get(cmd.Context(), codec.AssetIDToBoxName(id))
				if err != nil {
					return err
				}
				b, err := box.ParseBox(id, value, c.cfg.Params())
				if err != nil {
					return err
				}
				printBox(cmd, b)
				return printBody(cmd, b.Body)
			})
		},
	}
	get.Flags().StringVar(&getAsset, "asset", "", "asset id")
	_ = get.MarkFlagRequired("asset")

	var delAsset string
	del := &cobra.Command{
		Use:   "delete --asset <id>",
		Short: "Delete a stored record",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAsset(delAsset)
			if err != nil {
				return err
			}
			return c.withStore(func(st boxstore.Store) error {
				return st.Delete(cmd.Context(), codec.AssetIDToBoxName(id))
			})
		},
	}
	del.Flags().StringVar(&delAsset, "asset", "", "asset id")
	_ = del.MarkFlagRequired("asset")

	cmd.AddCommand(put, get, del)
	return cmd
}

func (c *cli) bundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Export or import a TAR snapshot of stored records",
	}

	var (
		out      string
		index    bool
		validate bool
	)
	export := &cobra.Command{
		Use:   "export --out <file> [--index] [--validate]",
		Short: "Write every stored record to a bundle",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := bundle.ExportOptions{IncludeIndex: index}
			if validate {
				p := c.cfg.Params()
				opts.Params = &p
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			bw := bufio.NewWriter(f)
			err = c.withStore(func(st boxstore.Store) error {
				return bundle.Export(cmd.Context(), bw, st, nil, opts)
			})
			if err == nil {
				err = bw.Flush()
			}
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			return err
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", "bundle file to write")
	export.Flags().BoolVar(&index, "index", true, "include index.json")
	export.Flags().BoolVar(&validate, "validate", false, "fail on values that are not valid records")
	_ = export.MarkFlagRequired("out")

	var ignoreUnknown, validateIn bool
	imp := &cobra.Command{
		Use:   "import [--ignore-unknown] [--validate] <file>",
		Short: "Store every record of a bundle",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := bundle.ImportOptions{IgnoreUnknown: ignoreUnknown}
			if validateIn {
				p := c.cfg.Params()
				opts.Params = &p
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return c.withStore(func(st boxstore.Store) error {
				keys, err := bundle.Import(cmd.Context(), bufio.NewReader(f), st, opts)
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k.AssetID())
				}
				return nil
			})
		},
	}
	imp.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "skip unknown TAR entries")
	imp.Flags().BoolVar(&validateIn, "validate", false, "reject values that are not valid records")

	cmd.AddCommand(export, imp)
	return cmd
}

func (c *cli) backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the store backends linked into this binary",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, b := range storeregistry.List(storeregistry.UsageCLI) {
				if b.Description == "" {
					fmt.Fprintln(cmd.OutOrStdout(), b.Name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, b.Description)
			}
			return nil
		},
	}
}
