package loc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/cucumber/godog"

	id "locreg/pkg/domain"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POSTAs(actor, path string, body interface{}) error
	GETAs(actor, path string) error
	Account(name string) (id.AccountID, error)
	LocID(alias string) id.LocID
	Hex32(alias string) string
	CurrentBlock() (uint64, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// reader is the account used for reads that do not depend on the caller.
const reader = "charlie"

// RegisterSteps registers LOC and collection step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &locSteps{tc: tc}

	// Creation steps
	ctx.Step(`^"(\w+)" creates an identity LOC "([^"]*)" for "(\w+)"$`, steps.createIdentityLoc)
	ctx.Step(`^"(\w+)" creates a transaction LOC "([^"]*)" for "(\w+)"$`, steps.createTransactionLoc)
	ctx.Step(`^"(\w+)" creates a logion identity LOC "([^"]*)"$`, steps.createLogionIdentityLoc)
	ctx.Step(`^"(\w+)" creates a logion transaction LOC "([^"]*)" requested by LOC "([^"]*)"$`, steps.createLogionTransactionLoc)
	ctx.Step(`^"(\w+)" creates a collection LOC "([^"]*)" for "(\w+)" with max size (\d+)$`, steps.createCollectionWithMaxSize)
	ctx.Step(`^"(\w+)" creates a collection LOC "([^"]*)" for "(\w+)" accepting items for (\d+) blocks?$`, steps.createCollectionWithDeadline)
	ctx.Step(`^"(\w+)" creates an uploadable collection LOC "([^"]*)" for "(\w+)" with max size (\d+)$`, steps.createUploadableCollection)
	ctx.Step(`^"(\w+)" creates a collection LOC "([^"]*)" for "(\w+)" without limits$`, steps.createCollectionWithoutLimits)

	// Mutation steps
	ctx.Step(`^"(\w+)" adds metadata "([^"]*)" with value "([^"]*)" to LOC "([^"]*)"$`, steps.addMetadata)
	ctx.Step(`^"(\w+)" adds metadata "([^"]*)" submitted by "(\w+)" to LOC "([^"]*)"$`, steps.addMetadataSubmittedBy)
	ctx.Step(`^"(\w+)" adds file "([^"]*)" to LOC "([^"]*)"$`, steps.addFile)
	ctx.Step(`^"(\w+)" links LOC "([^"]*)" to LOC "([^"]*)"$`, steps.addLink)
	ctx.Step(`^"(\w+)" closes LOC "([^"]*)"$`, steps.closeLoc)
	ctx.Step(`^"(\w+)" closes LOC "([^"]*)" with seal "([^"]*)"$`, steps.closeAndSeal)
	ctx.Step(`^"(\w+)" voids LOC "([^"]*)"$`, steps.voidLoc)
	ctx.Step(`^"(\w+)" voids LOC "([^"]*)" replacing it with "([^"]*)"$`, steps.voidAndReplace)

	// Collection item steps
	ctx.Step(`^"(\w+)" adds item "([^"]*)" to collection "([^"]*)"$`, steps.addItem)
	ctx.Step(`^"(\w+)" adds item "([^"]*)" with file "([^"]*)" to collection "([^"]*)"$`, steps.addItemWithFile)
	ctx.Step(`^"(\w+)" adds item "([^"]*)" to collection "([^"]*)" under the terms of LOC "([^"]*)"$`, steps.addItemWithTerms)
	ctx.Step(`^"(\w+)" gets item "([^"]*)" of collection "([^"]*)"$`, steps.getItem)
	ctx.Step(`^"(\w+)" gets the size of collection "([^"]*)"$`, steps.getCollectionSize)

	// Query steps
	ctx.Step(`^"(\w+)" gets LOC "([^"]*)"$`, steps.getLoc)
	ctx.Step(`^"(\w+)" lists the LOCs of "(\w+)"$`, steps.listAccountLocs)
	ctx.Step(`^"(\w+)" lists the LOCs requested by identity LOC "([^"]*)"$`, steps.listIdentityLocLocs)
	ctx.Step(`^"(\w+)" checks whether "(\w+)" has closed identity LOCs with "(\w+)" and "(\w+)"$`, steps.checkIdentity)

	// Assertion steps
	ctx.Step(`^the request succeeds$`, steps.requestSucceeds)
	ctx.Step(`^the response should list LOC "([^"]*)"$`, steps.responseShouldListLoc)
	ctx.Step(`^the response should not list LOC "([^"]*)"$`, steps.responseShouldNotListLoc)
	ctx.Step(`^LOC "([^"]*)" should be closed$`, steps.locShouldBeClosed)
	ctx.Step(`^LOC "([^"]*)" should be open$`, steps.locShouldBeOpen)
	ctx.Step(`^LOC "([^"]*)" should be void$`, steps.locShouldBeVoid)
	ctx.Step(`^LOC "([^"]*)" should be void and replaced by "([^"]*)"$`, steps.locShouldBeReplacedBy)
	ctx.Step(`^LOC "([^"]*)" should replace "([^"]*)"$`, steps.locShouldReplace)
	ctx.Step(`^LOC "([^"]*)" should not replace any LOC$`, steps.locShouldNotReplace)
	ctx.Step(`^LOC "([^"]*)" should have (\d+) metadata items?$`, steps.locShouldHaveMetadata)
	ctx.Step(`^the size of collection "([^"]*)" should be (\d+)$`, steps.collectionSizeShouldBe)
}

type locSteps struct {
	tc TestContext
}

// Views of the response bodies the assertions read.

type locView struct {
	ID         string         `json:"id"`
	Closed     bool           `json:"closed"`
	Void       *voidView      `json:"void"`
	ReplacerOf *string        `json:"replacer_of"`
	Metadata   []metadataView `json:"metadata"`
}

type voidView struct {
	Replacer *string `json:"replacer"`
}

type metadataView struct {
	Name string `json:"name"`
}

type locListView struct {
	Locs []string `json:"locs"`
}

type sizeView struct {
	Size uint32 `json:"size"`
}

// Creation

func (s *locSteps) createIdentityLoc(ctx context.Context, actor, alias, requester string) error {
	return s.createRequested(actor, "/locs/identity", alias, requester)
}

func (s *locSteps) createTransactionLoc(ctx context.Context, actor, alias, requester string) error {
	return s.createRequested(actor, "/locs/transaction", alias, requester)
}

func (s *locSteps) createRequested(actor, path, alias, requester string) error {
	account, err := s.tc.Account(requester)
	if err != nil {
		return err
	}
	return s.tc.POSTAs(actor, path, map[string]interface{}{
		"loc_id":    s.tc.LocID(alias).String(),
		"requester": account,
	})
}

func (s *locSteps) createLogionIdentityLoc(ctx context.Context, actor, alias string) error {
	return s.tc.POSTAs(actor, "/locs/identity/logion", map[string]interface{}{
		"loc_id": s.tc.LocID(alias).String(),
	})
}

func (s *locSteps) createLogionTransactionLoc(ctx context.Context, actor, alias, identity string) error {
	return s.tc.POSTAs(actor, "/locs/transaction/logion", map[string]interface{}{
		"loc_id":        s.tc.LocID(alias).String(),
		"requester_loc": s.tc.LocID(identity).String(),
	})
}

func (s *locSteps) createCollectionWithMaxSize(ctx context.Context, actor, alias, requester string, maxSize int) error {
	return s.createCollection(actor, alias, requester, map[string]interface{}{"max_size": maxSize})
}

func (s *locSteps) createUploadableCollection(ctx context.Context, actor, alias, requester string, maxSize int) error {
	return s.createCollection(actor, alias, requester, map[string]interface{}{
		"max_size":   maxSize,
		"can_upload": true,
	})
}

func (s *locSteps) createCollectionWithDeadline(ctx context.Context, actor, alias, requester string, blocks int) error {
	current, err := s.tc.CurrentBlock()
	if err != nil {
		return err
	}
	return s.createCollection(actor, alias, requester, map[string]interface{}{
		"last_block_submission": current + uint64(blocks), // #nosec G115 -- step regex only matches digits
	})
}

func (s *locSteps) createCollectionWithoutLimits(ctx context.Context, actor, alias, requester string) error {
	return s.createCollection(actor, alias, requester, map[string]interface{}{})
}

func (s *locSteps) createCollection(actor, alias, requester string, params map[string]interface{}) error {
	account, err := s.tc.Account(requester)
	if err != nil {
		return err
	}
	params["loc_id"] = s.tc.LocID(alias).String()
	params["requester"] = account
	return s.tc.POSTAs(actor, "/locs/collection", params)
}

// Mutation

func (s *locSteps) addMetadata(ctx context.Context, actor, name, value, alias string) error {
	account, err := s.tc.Account(actor)
	if err != nil {
		return err
	}
	return s.tc.POSTAs(actor, s.locPath(alias, "/metadata"), map[string]interface{}{
		"name":      name,
		"value":     value,
		"submitter": account,
	})
}

func (s *locSteps) addMetadataSubmittedBy(ctx context.Context, actor, name, submitter, alias string) error {
	account, err := s.tc.Account(submitter)
	if err != nil {
		return err
	}
	return s.tc.POSTAs(actor, s.locPath(alias, "/metadata"), map[string]interface{}{
		"name":      name,
		"value":     "value of " + name,
		"submitter": account,
	})
}

func (s *locSteps) addFile(ctx context.Context, actor, file, alias string) error {
	account, err := s.tc.Account(actor)
	if err != nil {
		return err
	}
	return s.tc.POSTAs(actor, s.locPath(alias, "/files"), map[string]interface{}{
		"hash":      s.tc.Hex32(file),
		"nature":    file,
		"submitter": account,
	})
}

func (s *locSteps) addLink(ctx context.Context, actor, alias, target string) error {
	return s.tc.POSTAs(actor, s.locPath(alias, "/links"), map[string]interface{}{
		"target": s.tc.LocID(target).String(),
		"nature": "related",
	})
}

func (s *locSteps) closeLoc(ctx context.Context, actor, alias string) error {
	return s.tc.POSTAs(actor, s.locPath(alias, "/close"), map[string]interface{}{})
}

func (s *locSteps) closeAndSeal(ctx context.Context, actor, alias, seal string) error {
	return s.tc.POSTAs(actor, s.locPath(alias, "/close"), map[string]interface{}{
		"seal": s.tc.Hex32(seal),
	})
}

func (s *locSteps) voidLoc(ctx context.Context, actor, alias string) error {
	return s.tc.POSTAs(actor, s.locPath(alias, "/void"), map[string]interface{}{})
}

func (s *locSteps) voidAndReplace(ctx context.Context, actor, alias, replacer string) error {
	return s.tc.POSTAs(actor, s.locPath(alias, "/void"), map[string]interface{}{
		"replacer": s.tc.LocID(replacer).String(),
	})
}

// Collection items

func (s *locSteps) addItem(ctx context.Context, actor, item, collection string) error {
	return s.tc.POSTAs(actor, s.locPath(collection, "/items"), map[string]interface{}{
		"item_id":     s.tc.Hex32(item),
		"description": item,
	})
}

func (s *locSteps) addItemWithFile(ctx context.Context, actor, item, file, collection string) error {
	return s.tc.POSTAs(actor, s.locPath(collection, "/items"), map[string]interface{}{
		"item_id":     s.tc.Hex32(item),
		"description": item,
		"files": []map[string]interface{}{{
			"name":         file,
			"content_type": "application/octet-stream",
			"size":         1024,
			"hash":         s.tc.Hex32(file),
		}},
	})
}

func (s *locSteps) addItemWithTerms(ctx context.Context, actor, item, collection, terms string) error {
	return s.tc.POSTAs(actor, s.locPath(collection, "/items"), map[string]interface{}{
		"item_id":     s.tc.Hex32(item),
		"description": item,
		"terms_and_conditions": []map[string]interface{}{{
			"type":    "logion_classification",
			"loc":     s.tc.LocID(terms).String(),
			"details": "{}",
		}},
	})
}

func (s *locSteps) getItem(ctx context.Context, actor, item, collection string) error {
	return s.tc.GETAs(actor, s.locPath(collection, "/items/"+s.tc.Hex32(item)))
}

func (s *locSteps) getCollectionSize(ctx context.Context, actor, collection string) error {
	return s.tc.GETAs(actor, s.locPath(collection, "/items"))
}

// Queries

func (s *locSteps) getLoc(ctx context.Context, actor, alias string) error {
	return s.tc.GETAs(actor, s.locPath(alias, ""))
}

func (s *locSteps) listAccountLocs(ctx context.Context, actor, account string) error {
	accountID, err := s.tc.Account(account)
	if err != nil {
		return err
	}
	return s.tc.GETAs(actor, "/accounts/"+accountID.String()+"/locs")
}

func (s *locSteps) listIdentityLocLocs(ctx context.Context, actor, identity string) error {
	return s.tc.GETAs(actor, s.locPath(identity, "/locs"))
}

func (s *locSteps) checkIdentity(ctx context.Context, actor, account, first, second string) error {
	accountID, err := s.tc.Account(account)
	if err != nil {
		return err
	}
	firstID, err := s.tc.Account(first)
	if err != nil {
		return err
	}
	secondID, err := s.tc.Account(second)
	if err != nil {
		return err
	}
	return s.tc.GETAs(actor, "/accounts/"+accountID.String()+"/identity?authorities="+firstID.String()+","+secondID.String())
}

// Assertions

func (s *locSteps) requestSucceeds(ctx context.Context) error {
	status := s.tc.GetLastResponseStatus()
	if status < 200 || status >= 300 {
		return fmt.Errorf("expected success but got %d\nResponse: %s", status, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *locSteps) responseShouldListLoc(ctx context.Context, alias string) error {
	listed, err := s.listed(alias)
	if err != nil {
		return err
	}
	if !listed {
		return fmt.Errorf("LOC %s not listed in %s", alias, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *locSteps) responseShouldNotListLoc(ctx context.Context, alias string) error {
	listed, err := s.listed(alias)
	if err != nil {
		return err
	}
	if listed {
		return fmt.Errorf("LOC %s unexpectedly listed in %s", alias, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *locSteps) listed(alias string) (bool, error) {
	var list locListView
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &list); err != nil {
		return false, fmt.Errorf("failed to parse LOC list: %w", err)
	}
	return slices.Contains(list.Locs, s.tc.LocID(alias).String()), nil
}

func (s *locSteps) locShouldBeClosed(ctx context.Context, alias string) error {
	loc, err := s.fetch(alias)
	if err != nil {
		return err
	}
	if !loc.Closed {
		return fmt.Errorf("LOC %s is open", alias)
	}
	return nil
}

func (s *locSteps) locShouldBeOpen(ctx context.Context, alias string) error {
	loc, err := s.fetch(alias)
	if err != nil {
		return err
	}
	if loc.Closed {
		return fmt.Errorf("LOC %s is closed", alias)
	}
	return nil
}

func (s *locSteps) locShouldBeVoid(ctx context.Context, alias string) error {
	loc, err := s.fetch(alias)
	if err != nil {
		return err
	}
	if loc.Void == nil {
		return fmt.Errorf("LOC %s is not void", alias)
	}
	return nil
}

func (s *locSteps) locShouldBeReplacedBy(ctx context.Context, alias, replacer string) error {
	loc, err := s.fetch(alias)
	if err != nil {
		return err
	}
	want := s.tc.LocID(replacer).String()
	if loc.Void == nil || loc.Void.Replacer == nil || *loc.Void.Replacer != want {
		return fmt.Errorf("LOC %s is not replaced by %s: %s", alias, replacer, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *locSteps) locShouldReplace(ctx context.Context, alias, replaced string) error {
	loc, err := s.fetch(alias)
	if err != nil {
		return err
	}
	want := s.tc.LocID(replaced).String()
	if loc.ReplacerOf == nil || *loc.ReplacerOf != want {
		return fmt.Errorf("LOC %s does not replace %s: %s", alias, replaced, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *locSteps) locShouldNotReplace(ctx context.Context, alias string) error {
	loc, err := s.fetch(alias)
	if err != nil {
		return err
	}
	if loc.ReplacerOf != nil {
		return fmt.Errorf("LOC %s replaces %s", alias, *loc.ReplacerOf)
	}
	return nil
}

func (s *locSteps) locShouldHaveMetadata(ctx context.Context, alias string, count int) error {
	loc, err := s.fetch(alias)
	if err != nil {
		return err
	}
	if len(loc.Metadata) != count {
		return fmt.Errorf("LOC %s has %d metadata items, expected %d", alias, len(loc.Metadata), count)
	}
	return nil
}

func (s *locSteps) collectionSizeShouldBe(ctx context.Context, alias string, size int) error {
	if err := s.getCollectionSize(ctx, reader, alias); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != http.StatusOK {
		return fmt.Errorf("collection size returned %d: %s", status, string(s.tc.GetLastResponseBody()))
	}
	var view sizeView
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &view); err != nil {
		return fmt.Errorf("failed to parse collection size: %w", err)
	}
	if int(view.Size) != size {
		return fmt.Errorf("collection %s has size %d, expected %d", alias, view.Size, size)
	}
	return nil
}

func (s *locSteps) fetch(alias string) (*locView, error) {
	if err := s.tc.GETAs(reader, s.locPath(alias, "")); err != nil {
		return nil, err
	}
	if status := s.tc.GetLastResponseStatus(); status != http.StatusOK {
		return nil, fmt.Errorf("get LOC %s returned %d: %s", alias, status, string(s.tc.GetLastResponseBody()))
	}
	var loc locView
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &loc); err != nil {
		return nil, fmt.Errorf("failed to parse LOC: %w", err)
	}
	return &loc, nil
}

func (s *locSteps) locPath(alias, suffix string) string {
	return "/locs/" + s.tc.LocID(alias).String() + suffix
}
