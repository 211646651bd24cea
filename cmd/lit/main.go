// lit is a content-addressable, branch-oriented version control core.
//
// Design:
// main() parses exactly one proper argument (a kingpin Command) per
// invocation, loads the repository rooted at the current directory
// (except for "init", which creates one), runs the requested operation
// against internal/repo, and prints the resulting status line before
// exiting ("init" prints no status line). This mirrors gitp4transfer's own single-pass, parse-then-run
// main(), with kingpin Commands standing in for that tool's flat flag
// set since lit's surface is one-verb-per-run rather than one giant
// import job.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alitto/pond"
	"github.com/emicklei/dot"
	graphviz "github.com/goccy/go-graphviz"
	"github.com/h2non/filetype"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/sthobeck/lit/config"
	"github.com/sthobeck/lit/internal/graph"
	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/history"
	"github.com/sthobeck/lit/internal/objstore"
	"github.com/sthobeck/lit/internal/repo"
	"github.com/sthobeck/lit/version"
)

func main() {
	app := kingpin.New("lit", "A content-addressable, branch-oriented version control core.")
	app.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("lit")).Author("sthobeck")
	app.HelpFlag.Short('h')

	var (
		debug     = app.Flag("debug", "Enable debugging level.").Bool()
		profileOn = app.Flag("profile", "Enable CPU or memory profiling (cpu|mem).").String()
	)

	initCmd := app.Command("init", "Initialise a new repository in the current directory.")

	commitCmd := app.Command("commit", "Commit").Alias("ci")
	commitMessage := commitCmd.Flag("message", "Commit message.").Short('m').Required().String()

	rollbackCmd := app.Command("rollback", "Rollback").Alias("ro")
	rollbackTarget := rollbackCmd.Arg("commit", "Target commit sha1.").Required().String()
	rollbackHard := rollbackCmd.Flag("hard", "Discard any shelved changes too.").Bool()

	checkoutCmd := app.Command("checkout", "Checkout").Alias("co")
	checkoutTarget := checkoutCmd.Arg("commit", "Target commit sha1.").Required().String()
	checkoutHard := checkoutCmd.Flag("hard", "Discard any shelved changes too.").Bool()

	logCmd := app.Command("log", "Log").Alias("l")
	logMaxCount := logCmd.Flag("max-count", "Limit to the N most recent commits.").Short('n').Int()
	logFilter := logCmd.Flag("filter", "Only show commits whose message contains this substring.").String()
	logVerbose := logCmd.Flag("verbose", "Also print each commit's changed paths.").Bool()
	logQuiet := logCmd.Flag("quiet", "Suppress the tag listing.").Bool()
	logGraph := logCmd.Flag("graph", "Render the branch history as a Graphviz dot graph.").Bool()
	logAll := logCmd.Flag("all", "With --graph, render every branch.").Bool()
	logRender := logCmd.Flag("render", "With --graph, additionally rasterise to this format (png|svg).").String()
	logGraphFile := logCmd.Flag("graphfile", "Path to write the dot graph (and, with --render, the rasterised image) to.").String()

	addCmd := app.Command("add", "Add").Alias("a")
	addPath := addCmd.Arg("path", "File or directory to add.").Required().String()
	addNoRecurse := addCmd.Flag("no-recurse", "Don't descend into subdirectories.").Bool()

	deleteCmd := app.Command("delete", "Delete").Alias("d")
	deletePath := deleteCmd.Arg("path", "File or directory to delete.").Required().String()
	deleteNoRecurse := deleteCmd.Flag("no-recurse", "Don't descend into subdirectories.").Bool()

	addBranchCmd := app.Command("add-branch", "Add branch").Alias("ab")
	addBranchName := addBranchCmd.Arg("name", "New branch name.").Required().String()
	addBranchFrom := addBranchCmd.Flag("from", "Branch to fork from.").Default(config.DefaultOriginBranch).String()

	deleteBranchCmd := app.Command("delete-branch", "Delete branch").Alias("db")
	deleteBranchName := deleteBranchCmd.Arg("name", "Branch to delete.").Required().String()

	switchBranchCmd := app.Command("switch-branch", "Switch branch").Alias("sb")
	switchBranchName := switchBranchCmd.Arg("name", "Branch to switch to.").Required().String()

	rebaseBranchCmd := app.Command("rebase-branch", "Rebase branch").Alias("rb")
	rebaseSource := rebaseBranchCmd.Arg("source", "Branch to replay onto destination.").Required().String()
	rebaseDestination := rebaseBranchCmd.Flag("destination", "Branch to rebase onto.").Default(config.DefaultOriginBranch).String()

	clearCacheCmd := app.Command("clear-cache", "Clear cache").Alias("cc")

	addTagCmd := app.Command("add-tag", "Add tag").Alias("at")
	addTagCommit := addTagCmd.Arg("commit", "Commit sha1 to tag.").Required().String()
	addTagName := addTagCmd.Arg("name", "Tag name.").Required().String()

	deleteTagCmd := app.Command("delete-tag", "Delete tag").Alias("dt")
	deleteTagName := deleteTagCmd.Arg("name", "Tag to delete.").Required().String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *profileOn != "" {
		switch *profileOn {
		case "cpu":
			defer profile.Start(profile.CPUProfile).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile).Stop()
		default:
			fmt.Fprintf(os.Stderr, "lit: unknown --profile mode %q (want cpu or mem)\n", *profileOn)
			os.Exit(1)
		}
	}

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug {
		logger.Level = logrus.DebugLevel
	}

	root, err := os.Getwd()
	if err != nil {
		logger.Errorf("lit: %v", err)
		os.Exit(1)
	}

	if command == initCmd.FullCommand() {
		if _, err := repo.Init(root, config.Default(), logger); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}
		return
	}

	r, err := repo.Open(root, logger)
	if err != nil {
		logger.Errorf("lit: %v", err)
		os.Exit(1)
	}

	switch command {
	case commitCmd.FullCommand():
		if _, err := r.Commit(*commitMessage); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case rollbackCmd.FullCommand():
		sha1, err := hashutil.Sha1FromHex(*rollbackTarget)
		if err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}
		if err := r.Rollback(sha1, *rollbackHard); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case checkoutCmd.FullCommand():
		sha1, err := hashutil.Sha1FromHex(*checkoutTarget)
		if err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}
		if err := r.Checkout(sha1, *checkoutHard); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case logCmd.FullCommand():
		runLog(r, *logMaxCount, *logFilter, *logVerbose, *logQuiet, *logGraph, *logAll, *logRender, *logGraphFile)

	case addCmd.FullCommand():
		warnIfBinary(logger, root, *addPath)
		if err := r.Add(*addPath, !*addNoRecurse); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case deleteCmd.FullCommand():
		if err := r.Delete(*deletePath, !*deleteNoRecurse); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case addBranchCmd.FullCommand():
		if _, err := r.CreateBranch(*addBranchName, *addBranchFrom); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case deleteBranchCmd.FullCommand():
		if err := r.DeleteBranch(*deleteBranchName); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case switchBranchCmd.FullCommand():
		if err := r.SwitchBranch(*switchBranchName); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case rebaseBranchCmd.FullCommand():
		idx, b, err := r.ActiveBranch()
		if err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}
		active := !idx.ReadOnly && b.Name == *rebaseDestination
		if err := r.RebaseBranch(*rebaseDestination, *rebaseSource, active); err != nil {
			var rebaseErr *history.RebaseError
			if errors.As(err, &rebaseErr) {
				for _, c := range rebaseErr.Conflicts {
					fmt.Printf("conflict: commit %s vs commit %s on %q (diff %s vs diff %s)\n",
						c.SourceCommit.Hex(), c.DestCommit.Hex(), c.NewPath,
						c.SourceCrc.Decimal(), c.DestCrc.Decimal())
				}
			}
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case clearCacheCmd.FullCommand():
		report, err := r.ClearCache()
		if err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}
		fmt.Printf("removed %d unreferenced objects\n", report.RemovedFiles)

	case addTagCmd.FullCommand():
		commitSha1, err := hashutil.Sha1FromHex(*addTagCommit)
		if err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}
		if err := r.AddTag(*addTagName, commitSha1); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}

	case deleteTagCmd.FullCommand():
		if err := r.DeleteTag(*deleteTagName); err != nil {
			logger.Errorf("lit: %v", err)
			os.Exit(1)
		}
	}

	status, err := r.Status()
	if err != nil {
		logger.Errorf("lit: %v", err)
		os.Exit(1)
	}
	fmt.Println(status.String())
}

// warnIfBinary inspects path's leading bytes and logs an advisory
// warning when it looks like a non-text format lit's line-oriented diff
// wasn't designed for. Grounded on GitBlob.setCompressionDetails's use
// of the same library to classify blob content before archiving.
func warnIfBinary(logger *logrus.Logger, root, path string) {
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return
	}
	head := data
	if len(head) > 261 {
		head = head[:261]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return
	}
	switch {
	case filetype.IsImage(head), filetype.IsArchive(head), filetype.IsAudio(head), filetype.IsVideo(head):
		logger.Warnf("lit: add: %q looks binary (%s); lit only tracks line-oriented text diffs", path, kind.Extension)
	}
}

// runLog prints the active branch's commit history, optionally filtered,
// bounded, verbose, or rendered as a dot graph.
func runLog(r *repo.Repository, maxCount int, filter string, verbose, quiet, wantGraph, all bool, render, graphFile string) {
	commits, err := r.Log(maxCount)
	if err != nil {
		r.Log.Errorf("lit: %v", err)
		os.Exit(1)
	}
	for _, c := range commits {
		if filter != "" && !strings.Contains(c.Message, filter) {
			continue
		}
		fmt.Printf("%s  %s\n", c.Sha1.Hex()[:12], c.Message)
		if verbose {
			for _, d := range c.Changes {
				fmt.Printf("    %-16s %s\n", d.Kind, d.NewPath)
			}
		}
	}
	if !quiet {
		tags, err := r.Tags()
		if err == nil {
			for _, t := range tags {
				fmt.Printf("tag: %s -> %s\n", t.Name, t.CommitHash.Hex()[:12])
			}
		}
	}
	if wantGraph {
		renderGraph(r, all, render, graphFile)
	}
}

// renderGraph builds a dot graph of the active branch (or, with all,
// every branch concurrently via a pond worker pool reading each
// branch ref) and writes it to graphFile, optionally rasterising it
// with go-graphviz when render names an output format.
func renderGraph(r *repo.Repository, all bool, render, graphFile string) {
	g := dot.NewGraph(dot.Directed)

	if all {
		names, err := r.Store.ListBranches()
		if err != nil {
			r.Log.Errorf("lit: log --graph: %v", err)
			return
		}
		pool := pond.New(runtime.NumCPU(), 0, pond.MinWorkers(1))
		type result struct {
			b   *objstore.Branch
			err error
		}
		results := make(chan result, len(names))
		for _, name := range names {
			name := name
			pool.Submit(func() {
				b, err := r.Store.ReadBranch(name)
				results <- result{b: b, err: err}
			})
		}
		pool.StopAndWait()
		close(results)
		branches := make([]*objstore.Branch, 0, len(names))
		for res := range results {
			if res.err != nil {
				r.Log.Errorf("lit: log --graph: %v", res.err)
				continue
			}
			branches = append(branches, res.b)
		}
		graph.BuildAll(g, branches)
	} else {
		_, b, err := r.ActiveBranch()
		if err != nil {
			r.Log.Errorf("lit: log --graph: %v", err)
			return
		}
		graph.Build(g, b)
	}

	if graphFile == "" {
		fmt.Println(g.String())
		return
	}
	if err := os.WriteFile(graphFile, []byte(g.String()), 0644); err != nil {
		r.Log.Errorf("lit: log --graph: write %s: %v", graphFile, err)
		return
	}
	if render == "" {
		return
	}
	gv := graphviz.New()
	parsed, err := graphviz.ParseBytes([]byte(g.String()))
	if err != nil {
		r.Log.Errorf("lit: log --render: parse dot: %v", err)
		return
	}
	if err := gv.RenderFilename(parsed, graphviz.Format(render), graphFile+"."+render); err != nil {
		r.Log.Errorf("lit: log --render: %v", err)
	}
}
