// Package nbfix rewrites Jupyter notebooks authored for an MDX documentation
// platform so they display and execute in a standard notebook viewer.
//
// # Quick Start
//
// Create a fixer rooted at the documentation tree and fix a notebook in place:
//
//	fixer, err := nbfix.NewFixer(nbfix.WithBaseDir("/path/to/repo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := fixer.FixFile(ctx, "/path/to/repo/docs/guides/intro.ipynb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Modified)
//
// The file is written back only when something changed, so running the fixer
// twice is a no-op the second time.
//
// # Passes
//
// Each notebook goes through two passes:
//
//  1. Normalize: strip frontmatter from the first cell, remove {/* ... */}
//     directives, turn <Image> elements into markdown images, make absolute
//     image paths relative to the notebook, and replace pre-rendered <Image>
//     text in cell outputs with an HTML <img> element.
//  2. Split: move fenced python and shell blocks out of markdown cells into
//     their own code cells. Blocks inside container elements such as
//     <Tabs> or <details> stay where they are.
//
// Both passes work on an in-memory [Notebook] and report whether anything
// changed. Use [Fixer.Fix] to run them on a decoded notebook without touching
// the filesystem.
//
// # Configuration
//
// Use functional options to customize the rule set:
//
//	fixer, err := nbfix.NewFixer(
//	    nbfix.WithBaseDir(root),
//	    nbfix.WithContainerTags("Admonition", "Tabs", "details"),
//	    nbfix.WithShellLanguages("bash", "sh", "zsh"),
//	    nbfix.WithAssetPrefixes("docs/images", "static/img"),
//	)
//
// A Fixer is immutable after construction and safe for concurrent use.
package nbfix
