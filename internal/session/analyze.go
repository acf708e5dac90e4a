package session

import (
	"context"
	"errors"

	"shelftidy/internal/audit"
	"shelftidy/internal/metadata"
	"shelftidy/internal/plan"
	"shelftidy/internal/scan"
)

type itemKind int

const (
	itemProposal itemKind = iota
	itemTidy
	itemParseFailure
	itemPlanFailure
)

// workItem is one book folder in pipeline order. Which fields are valid
// depends on the kind: failures carry only folder and reason, tidy items
// carry the book, proposals carry the plan as well.
type workItem struct {
	kind   itemKind
	folder scan.Folder
	book   metadata.Book
	plan   plan.BookPlan
	reason string
}

type analysis struct {
	items []workItem
	// books holds every successfully parsed record, for library figures.
	books     []metadata.Book
	proposals int
	failures  int
}

// analyze scans the library and classifies every book folder. Extraction
// runs over the whole library before planning so the planner sees all
// series siblings when it picks volume padding widths.
func (c *Controller) analyze(ctx context.Context) (*analysis, error) {
	c.setPhase(PhaseScanning)
	folders, err := scan.NewScanner(c.cfg, c.logger).Scan(ctx, c.root)
	if err != nil {
		return nil, err
	}

	c.setPhase(PhasePlanning)
	type extraction struct {
		folder scan.Folder
		book   metadata.Book
		err    error
	}
	extractions := make([]extraction, 0, len(folders))
	a := &analysis{}
	for _, folder := range folders {
		book, err := metadata.Extract(folder)
		extractions = append(extractions, extraction{folder: folder, book: book, err: err})
		if err == nil {
			a.books = append(a.books, book)
		}
	}

	planner := plan.NewPlanner(c.root, a.books, plan.WithMinVolumeWidth(c.cfg.Library.MinVolumeWidth))
	for _, e := range extractions {
		if e.err != nil {
			a.items = append(a.items, workItem{
				kind:   itemParseFailure,
				folder: e.folder,
				reason: failureReason(e.err),
			})
			a.failures++
			continue
		}
		bookPlan, err := planner.Plan(e.book, e.folder)
		if err != nil {
			a.items = append(a.items, workItem{
				kind:   itemPlanFailure,
				folder: e.folder,
				book:   e.book,
				reason: failureReason(err),
			})
			a.failures++
			continue
		}
		if len(bookPlan.Moves) == 0 {
			a.items = append(a.items, workItem{kind: itemTidy, folder: e.folder, book: e.book})
			continue
		}
		a.items = append(a.items, workItem{kind: itemProposal, folder: e.folder, book: e.book, plan: bookPlan})
		a.proposals++
	}
	return a, nil
}

func failureReason(err error) string {
	var parseErr *metadata.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Reason
	}
	var planErr *plan.PlanError
	if errors.As(err, &planErr) {
		return planErr.Reason
	}
	return err.Error()
}

// Proposal is one book with pending changes, resolved against the live
// filesystem.
type Proposal struct {
	Book       metadata.Book
	Plan       plan.BookPlan
	Resolution plan.Resolution
}

// Failure is a book folder that could not be brought to a plan.
type Failure struct {
	Kind   audit.Kind
	Dir    string
	Title  string
	Reason string
}

// Preview is the outcome of a dry analysis: library figures plus what a
// live run would attempt, with nothing touched.
type Preview struct {
	Summary   audit.Summary
	Proposals []Proposal
	Failures  []Failure
}

// Preview analyzes the library without taking the lock, writing the audit
// log, or moving anything. Safe to run read-only at any time.
func (c *Controller) Preview(ctx context.Context) (Preview, error) {
	a, err := c.analyze(ctx)
	if err != nil {
		return Preview{}, err
	}

	sink := audit.NewSink(nil, nil, c.logger)
	for _, b := range a.books {
		sink.AddBook(b)
	}
	pv := Preview{Summary: sink.Summarize()}
	for _, item := range a.items {
		switch item.kind {
		case itemProposal:
			pv.Proposals = append(pv.Proposals, Proposal{
				Book:       item.book,
				Plan:       item.plan,
				Resolution: c.organizer.Resolve(item.plan),
			})
		case itemParseFailure:
			pv.Failures = append(pv.Failures, Failure{
				Kind:   audit.KindParseFailure,
				Dir:    item.folder.Path,
				Reason: item.reason,
			})
		case itemPlanFailure:
			pv.Failures = append(pv.Failures, Failure{
				Kind:   audit.KindPlanFailure,
				Dir:    item.folder.Path,
				Title:  item.book.Title,
				Reason: item.reason,
			})
		}
	}
	c.setPhase(PhaseSummarized)
	return pv, nil
}
