package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"xdao.co/arc89/arc90"
	"xdao.co/arc89/box"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/flags"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/jsonmeta"
	"xdao.co/arc89/params"
	"xdao.co/arc89/writeplan"
)

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func parseAsset(s string) (uint64, error) {
	id, err := codec.ParseAssetID(s)
	if err != nil {
		return 0, usageError{err}
	}
	return id, nil
}

func (c *cli) boxNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "box-name <asset-id>",
		Short: "Print the record key of an asset (hex, then base64)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAsset(args[0])
			if err != nil {
				return err
			}
			n := codec.AssetIDToBoxName(id)
			fmt.Fprintln(cmd.OutOrStdout(), n.Hex())
			fmt.Fprintln(cmd.OutOrStdout(), codec.B64Encode(n.Bytes()))
			return nil
		},
	}
}

func (c *cli) parseCmd() *cobra.Command {
	var asset string
	var showBody bool
	cmd := &cobra.Command{
		Use:   "parse --asset <id> <box-file>",
		Short: "Parse a raw record value and verify its hash",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAsset(asset)
			if err != nil {
				return err
			}
			value, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}
			b, err := box.ParseBox(id, value, c.cfg.Params())
			if err != nil {
				return err
			}
			ok, err := b.HashMatches(hashing.Hash{}, false)
			if err != nil {
				return err
			}
			printBox(cmd, b)
			fmt.Fprintf(cmd.OutOrStdout(), "hash_valid:\t%t\n", ok)
			if showBody {
				return printBody(cmd, b.Body)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "asset id")
	cmd.Flags().BoolVar(&showBody, "body", false, "also print the body as JSON")
	_ = cmd.MarkFlagRequired("asset")
	return cmd
}

func printBox(cmd *cobra.Command, b *box.AssetMetadataBox) {
	w := cmd.OutOrStdout()
	h := b.Header
	fmt.Fprintf(w, "asset_id:\t%d\n", b.AssetID)
	fmt.Fprintf(w, "short:\t%t\n", h.Identifiers.Short())
	fmt.Fprintf(w, "reversible:\t%s\n", strings.Join(h.Flags.Reversible.Names(), ","))
	fmt.Fprintf(w, "irreversible:\t%s\n", strings.Join(h.Flags.Irreversible.Names(), ","))
	fmt.Fprintf(w, "metadata_hash:\t%s\n", h.MetadataHash.Hex())
	fmt.Fprintf(w, "last_modified_round:\t%d\n", h.LastModifiedRound)
	fmt.Fprintf(w, "deprecated_by:\t%d\n", h.DeprecatedBy)
	fmt.Fprintf(w, "size:\t%d\n", b.Body.Size())
	fmt.Fprintf(w, "cid:\t%s\n", b.Body.CID())
}

func printBody(cmd *cobra.Command, body box.MetadataBody) error {
	if body.IsEmpty() {
		return nil
	}
	o, err := body.JSON()
	if err != nil {
		return err
	}
	s, err := jsonmeta.Pretty(o)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}

type flagSet struct {
	arc20, arc62             bool
	arc3, arc89, immutable   bool
	reversible, irreversible uint8
}

func (f *flagSet) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.arc20, "arc20", false, "set the ARC-20 reversible flag")
	fs.BoolVar(&f.arc62, "arc62", false, "set the ARC-62 reversible flag")
	fs.BoolVar(&f.arc3, "arc3", false, "set the ARC-3 irreversible flag")
	fs.BoolVar(&f.arc89, "arc89", false, "set the ARC-89 native irreversible flag")
	fs.BoolVar(&f.immutable, "immutable", false, "set the immutable flag")
	fs.Uint8Var(&f.reversible, "reversible", 0, "raw reversible flag byte (OR-ed with the named flags)")
	fs.Uint8Var(&f.irreversible, "irreversible", 0, "raw irreversible flag byte (OR-ed with the named flags)")
}

func (f *flagSet) flags() flags.MetadataFlags {
	rev := f.reversible
	rev = flags.SetBit(rev, flags.ReversibleARC20, f.arc20)
	rev = flags.SetBit(rev, flags.ReversibleARC62, f.arc62)
	irr := f.irreversible
	irr = flags.SetBit(irr, flags.IrreversibleARC3, f.arc3)
	irr = flags.SetBit(irr, flags.IrreversibleARC89, f.arc89)
	irr = flags.SetBit(irr, flags.IrreversibleImmutable, f.immutable)
	return flags.NewMetadataFlags(rev, irr)
}

func (c *cli) readMetadata(asset, path string, fl *flagSet) (box.AssetMetadata, error) {
	id, err := parseAsset(asset)
	if err != nil {
		return box.AssetMetadata{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return box.AssetMetadata{}, fmt.Errorf("read metadata: %w", err)
	}
	o, err := jsonmeta.Decode(raw)
	if err != nil {
		return box.AssetMetadata{}, err
	}
	return box.NewAssetMetadataFromJSON(id, o, fl.flags(), c.cfg.Params())
}

func (c *cli) hashCmd() *cobra.Command {
	var asset string
	fl := &flagSet{}
	cmd := &cobra.Command{
		Use:   "hash --asset <id> [flags] <json-file>",
		Short: "Compute the metadata hash a record of this JSON would carry",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := c.readMetadata(asset, args[0], fl)
			if err != nil {
				return err
			}
			p := c.cfg.Params()
			mh, err := md.MetadataHash(p)
			if err != nil {
				return err
			}
			hh, err := md.HeaderHash(p)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "metadata_hash:\t%s\n", mh.Hex())
			fmt.Fprintf(w, "header_hash:\t%s\n", hh.Hex())
			fmt.Fprintf(w, "size:\t%d\n", md.Body.Size())
			fmt.Fprintf(w, "short:\t%t\n", md.Identifiers(p).Short())
			fmt.Fprintf(w, "cid:\t%s\n", md.Body.CID())
			return nil
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "asset id")
	_ = cmd.MarkFlagRequired("asset")
	fl.bind(cmd)
	return cmd
}

func (c *cli) arc3HashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "arc3-hash <json-file>",
		Short: "Compute the ARC-3 metadata hash of a JSON file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read metadata: %w", err)
			}
			h, err := hashing.ARC3MetadataHash(raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h.Hex())
			return nil
		},
	}
}

func (c *cli) uriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uri",
		Short: "Parse or build ARC-90 location URIs",
	}

	parse := &cobra.Command{
		Use:   "parse <uri>",
		Short: "Print the parts of a URI",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := arc90.Parse(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			net := u.NetAuth
			if net == "" {
				net = "mainnet"
			}
			fmt.Fprintf(w, "network:\t%s\n", net)
			fmt.Fprintf(w, "app_id:\t%d\n", u.AppID)
			fmt.Fprintf(w, "partial:\t%t\n", u.IsPartial())
			if id, ok := u.AssetID(); ok {
				n, _ := u.BoxName()
				fmt.Fprintf(w, "asset_id:\t%d\n", id)
				fmt.Fprintf(w, "box_name:\t%s\n", n.Hex())
			}
			tags := make([]string, 0, u.Compliance.Len())
			for _, t := range u.Compliance.Tags() {
				tags = append(tags, fmt.Sprint(t))
			}
			fmt.Fprintf(w, "compliance:\t%s\n", strings.Join(tags, ","))
			return nil
		},
	}

	var (
		net   string
		app   uint64
		asset string
		arcs  []uint
	)
	build := &cobra.Command{
		Use:   "build --app <id> [--net <tag>] [--asset <id>] [--arc <n>...]",
		Short: "Build a URI; without --asset the URI is partial",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags := make([]uint64, 0, len(arcs))
			for _, a := range arcs {
				tags = append(tags, uint64(a))
			}
			d := params.Deployment{Network: net, AppID: app}
			u := d.PartialURI(tags...)
			if asset != "" {
				id, err := parseAsset(asset)
				if err != nil {
					return err
				}
				u = d.URI(id, tags...)
			}
			s, err := u.Format()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	build.Flags().StringVar(&net, "net", "", "network tag (empty for mainnet)")
	build.Flags().Uint64Var(&app, "app", 0, "registry application id")
	build.Flags().StringVar(&asset, "asset", "", "asset id")
	build.Flags().UintSliceVar(&arcs, "arc", nil, "compliance tag (repeatable)")
	_ = build.MarkFlagRequired("app")

	cmd.AddCommand(parse, build)
	return cmd
}

func (c *cli) mbrCmd() *cobra.Command {
	var (
		newSize, oldSize int
		del              bool
	)
	cmd := &cobra.Command{
		Use:   "mbr --new <size> [--old <size>] [--delete]",
		Short: "Compute the balance change of a create, resize or delete",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := params.MbrDeltaRequest{NewMetadataSize: newSize, Delete: del}
			if cmd.Flags().Changed("old") {
				req.OldMetadataSize = params.Size(oldSize)
			}
			d, err := c.cfg.Params().MbrDelta(req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", d.Sign(), d.Amount())
			return nil
		},
	}
	cmd.Flags().IntVar(&newSize, "new", 0, "new metadata size in bytes")
	cmd.Flags().IntVar(&oldSize, "old", 0, "current metadata size in bytes (omit for a create)")
	cmd.Flags().BoolVar(&del, "delete", false, "the record is being deleted")
	return cmd
}

func (c *cli) pagesCmd() *cobra.Command {
	var (
		asset    string
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "pages [--asset <id>] [--page-size <n>] <file>",
		Short: "List the pages of a metadata body with their hashes",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id uint64
			if asset != "" {
				var err error
				if id, err = parseAsset(asset); err != nil {
					return err
				}
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			if pageSize == 0 {
				pageSize = c.cfg.Params().PageSize
			}
			pages, err := box.NewMetadataBody(raw).Pages(pageSize)
			if err != nil {
				return err
			}
			for i, pg := range pages {
				h, err := hashing.PageHash(id, i, pg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%s\n", i, len(pg), h.Hex())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "asset id used in page hashes")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size (default from parameters)")
	return cmd
}

func (c *cli) chunksCmd() *cobra.Command {
	var (
		asset   string
		oldSize int
	)
	fl := &flagSet{}
	cmd := &cobra.Command{
		Use:   "chunks --asset <id> [--old <size>] <json-file>",
		Short: "Plan the ledger calls that write a metadata body",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := c.readMetadata(asset, args[0], fl)
			if err != nil {
				return err
			}
			p := c.cfg.Params()
			var plan writeplan.Plan
			if cmd.Flags().Changed("old") {
				plan, err = writeplan.Replace(p, oldSize, md)
			} else {
				plan, err = writeplan.Create(p, md)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "op:\t%s\n", plan.Op)
			fmt.Fprintf(w, "calls:\t%d\n", plan.Calls())
			fmt.Fprintf(w, "mbr_delta:\t%s\t%d\n", plan.Delta.Sign(), plan.Delta.Amount())
			fmt.Fprintf(w, "metadata_hash:\t%s\n", plan.MetadataHash.Hex())
			fmt.Fprintf(w, "chunk\t0\t%d\n", len(plan.Head))
			for i, ch := range plan.Extra {
				fmt.Fprintf(w, "chunk\t%d\t%d\n", i+1, len(ch))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "asset id")
	cmd.Flags().IntVar(&oldSize, "old", 0, "current metadata size; plans a replace instead of a create")
	_ = cmd.MarkFlagRequired("asset")
	fl.bind(cmd)
	return cmd
}
