package handler

// Handler tests verify HTTP status mapping, the reason field on rule
// rejections and request parsing. Rule semantics are covered in the
// service package and in e2e/features.

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"locreg/internal/loc/handler/mocks"
	"locreg/internal/loc/models"
	"locreg/internal/loc/service"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	"locreg/pkg/requestcontext"
)

const (
	testOwner     id.AccountID = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	testRequester id.AccountID = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
	testHashHex                = "0x0101010101010101010101010101010101010101010101010101010101010101"
)

type LocHandlerSuite struct {
	suite.Suite
}

func TestLocHandlerSuite(t *testing.T) {
	suite.Run(t, new(LocHandlerSuite))
}

// =============================================================================
// Create
// =============================================================================

func (s *LocHandlerSuite) TestHandleCreateTransactionLoc() {
	s.Run("created LOC is returned with 201", func() {
		router, mockService := newTestRouter(s.T())
		locID := id.LocID(uuid.New())
		mockService.EXPECT().CreateTransactionLoc(gomock.Any(), testOwner, locID, testRequester).
			Return(models.NewOpenLoc(testOwner, models.AccountRequester{Account: testRequester}, models.LocTypeTransaction), nil)

		w := serve(router, newRequest(http.MethodPost, "/locs/transaction",
			CreateLocRequest{LocID: locID.String(), Requester: string(testRequester)}, testOwner))

		s.Equal(http.StatusCreated, w.Code)
		var resp LocResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(locID, resp.ID)
		s.Equal(models.LocTypeTransaction, resp.LocType)
		s.Equal(models.RequesterKindAccount, resp.Requester.Kind)
		s.Require().NotNil(resp.Requester.Account)
		s.Equal(testRequester, *resp.Requester.Account)
		s.Empty(resp.Metadata)
		s.Nil(resp.Collection)
	})

	s.Run("existing id returns 409 with reason", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().CreateTransactionLoc(gomock.Any(), testOwner, gomock.Any(), testRequester).
			Return(nil, models.ErrAlreadyExists.Domain())

		w := serve(router, newRequest(http.MethodPost, "/locs/transaction",
			CreateLocRequest{LocID: uuid.NewString(), Requester: string(testRequester)}, testOwner))

		s.assertRejection(w, http.StatusConflict, "conflict", "AlreadyExists")
	})

	s.Run("malformed loc id returns 400 before the service is called", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodPost, "/locs/transaction",
			CreateLocRequest{LocID: "not-a-uuid", Requester: string(testRequester)}, testOwner))

		s.assertStatusAndError(w, http.StatusBadRequest, "validation_error")
		s.Contains(s.errorBody(w)["error_description"], "loc_id")
	})

	s.Run("missing caller returns 500", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodPost, "/locs/transaction",
			CreateLocRequest{LocID: uuid.NewString(), Requester: string(testRequester)}, ""))

		s.assertStatusAndError(w, http.StatusInternalServerError, "internal_error")
	})

	s.Run("policy rejection returns 403", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().CreateTransactionLoc(gomock.Any(), testOwner, gomock.Any(), testRequester).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "caller may not open LOCs"))

		w := serve(router, newRequest(http.MethodPost, "/locs/transaction",
			CreateLocRequest{LocID: uuid.NewString(), Requester: string(testRequester)}, testOwner))

		s.assertStatusAndError(w, http.StatusForbidden, "forbidden")
	})
}

func (s *LocHandlerSuite) TestHandleCreateLogionTransactionLoc() {
	s.Run("anchor that is not a closed identity LOC maps to 409", func() {
		router, mockService := newTestRouter(s.T())
		locID := id.LocID(uuid.New())
		anchor := id.LocID(uuid.New())
		mockService.EXPECT().CreateLogionTransactionLoc(gomock.Any(), testOwner, locID, anchor).
			Return(nil, models.ErrUnexpectedRequester.Domain())

		w := serve(router, newRequest(http.MethodPost, "/locs/transaction/logion",
			CreateLogionTransactionRequest{LocID: locID.String(), RequesterLoc: anchor.String()}, testOwner))

		s.assertRejection(w, http.StatusConflict, "conflict", "UnexpectedRequester")
	})
}

func (s *LocHandlerSuite) TestHandleCreateCollectionLoc() {
	s.Run("bounds are passed through to the command", func() {
		router, mockService := newTestRouter(s.T())
		locID := id.LocID(uuid.New())
		block := id.BlockNumber(100)
		size := uint32(10)
		loc, err := models.NewOpenCollectionLoc(testOwner, testRequester, &block, &size, true)
		s.Require().NoError(err)
		mockService.EXPECT().CreateCollectionLoc(gomock.Any(), testOwner, service.CreateCollectionCommand{
			LocID:               locID,
			Requester:           testRequester,
			LastBlockSubmission: &block,
			MaxSize:             &size,
			CanUpload:           true,
		}).Return(loc, nil)

		lastBlock := uint64(100)
		w := serve(router, newRequest(http.MethodPost, "/locs/collection", CreateCollectionRequest{
			LocID:               locID.String(),
			Requester:           string(testRequester),
			LastBlockSubmission: &lastBlock,
			MaxSize:             &size,
			CanUpload:           true,
		}, testOwner))

		s.Equal(http.StatusCreated, w.Code)
		var resp LocResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Require().NotNil(resp.Collection)
		s.Equal(block, *resp.Collection.LastBlockSubmission)
		s.Equal(size, *resp.Collection.MaxSize)
		s.True(resp.Collection.CanUpload)
	})

	s.Run("no limit maps to 400 with reason", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().CreateCollectionLoc(gomock.Any(), testOwner, gomock.Any()).
			Return(nil, models.ErrCollectionHasNoLimit.Domain())

		w := serve(router, newRequest(http.MethodPost, "/locs/collection", CreateCollectionRequest{
			LocID:     uuid.NewString(),
			Requester: string(testRequester),
		}, testOwner))

		s.assertRejection(w, http.StatusBadRequest, "validation_error", "CollectionHasNoLimit")
	})
}

// =============================================================================
// Mutations
// =============================================================================

func (s *LocHandlerSuite) TestHandleAddMetadata() {
	locID := id.LocID(uuid.New())

	s.Run("success returns 204", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().AddMetadata(gomock.Any(), testOwner, locID, models.MetadataItem{
			Name: "n", Value: "v", Submitter: testRequester,
		}).Return(nil)

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/metadata",
			AddMetadataRequest{Name: "n", Value: "v", Submitter: string(testRequester)}, testOwner))

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("rule rejections carry their reason", func() {
		cases := []struct {
			rule   *models.RuleError
			status int
			code   string
		}{
			{models.ErrNotFound, http.StatusNotFound, "not_found"},
			{models.ErrUnauthorized, http.StatusForbidden, "forbidden"},
			{models.ErrCannotMutate, http.StatusConflict, "conflict"},
			{models.ErrCannotMutateVoid, http.StatusConflict, "conflict"},
			{models.ErrMetadataItemInvalid, http.StatusBadRequest, "validation_error"},
			{models.ErrInvalidSubmitter, http.StatusForbidden, "forbidden"},
		}
		for _, tc := range cases {
			router, mockService := newTestRouter(s.T())
			mockService.EXPECT().AddMetadata(gomock.Any(), testOwner, locID, gomock.Any()).Return(tc.rule.Domain())

			w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/metadata",
				AddMetadataRequest{Name: "n", Value: "v", Submitter: string(testOwner)}, testOwner))

			s.assertRejection(w, tc.status, tc.code, tc.rule.Reason())
		}
	})

	s.Run("malformed path id returns 400", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodPost, "/locs/nope/metadata",
			AddMetadataRequest{Submitter: string(testOwner)}, testOwner))

		s.assertStatusAndError(w, http.StatusBadRequest, "bad_request")
	})

	s.Run("missing submitter returns 400", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/metadata",
			AddMetadataRequest{Name: "n"}, testOwner))

		s.assertStatusAndError(w, http.StatusBadRequest, "validation_error")
	})
}

func (s *LocHandlerSuite) TestHandleAddFile() {
	locID := id.LocID(uuid.New())

	s.Run("hash is decoded from hex", func() {
		router, mockService := newTestRouter(s.T())
		var hash id.Hash
		for i := range hash {
			hash[i] = 0x01
		}
		mockService.EXPECT().AddFile(gomock.Any(), testOwner, locID, models.File{
			Hash: hash, Nature: "deed", Submitter: testOwner,
		}).Return(nil)

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/files",
			AddFileRequest{Hash: testHashHex, Nature: "deed", Submitter: string(testOwner)}, testOwner))

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("short hash returns 400", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/files",
			AddFileRequest{Hash: "0xabcd", Submitter: string(testOwner)}, testOwner))

		s.assertStatusAndError(w, http.StatusBadRequest, "validation_error")
	})
}

func (s *LocHandlerSuite) TestHandleAddLink() {
	s.Run("missing target maps to 404 with reason", func() {
		router, mockService := newTestRouter(s.T())
		locID := id.LocID(uuid.New())
		target := id.LocID(uuid.New())
		mockService.EXPECT().AddLink(gomock.Any(), testOwner, locID, models.LocLink{Target: target, Nature: "n"}).
			Return(models.ErrLinkedLocNotFound.Domain())

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/links",
			AddLinkRequest{Target: target.String(), Nature: "n"}, testOwner))

		s.assertRejection(w, http.StatusNotFound, "not_found", "LinkedLocNotFound")
	})
}

func (s *LocHandlerSuite) TestHandleClose() {
	locID := id.LocID(uuid.New())

	s.Run("empty body closes without seal", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().Close(gomock.Any(), testOwner, locID).Return(nil)

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/close", nil, testOwner))

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("seal in body closes and seals", func() {
		router, mockService := newTestRouter(s.T())
		seal, err := id.ParseHash(testHashHex)
		s.Require().NoError(err)
		mockService.EXPECT().CloseAndSeal(gomock.Any(), testOwner, locID, seal).Return(nil)

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/close",
			CloseRequest{Seal: testHashHex}, testOwner))

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("already closed maps to 409", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().Close(gomock.Any(), testOwner, locID).Return(models.ErrAlreadyClosed.Domain())

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/close", nil, testOwner))

		s.assertRejection(w, http.StatusConflict, "conflict", "AlreadyClosed")
	})
}

func (s *LocHandlerSuite) TestHandleMakeVoid() {
	locID := id.LocID(uuid.New())

	s.Run("empty body voids without replacer", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().MakeVoid(gomock.Any(), testOwner, locID).Return(nil)

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/void", nil, testOwner))

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("replacer in body voids and replaces", func() {
		router, mockService := newTestRouter(s.T())
		replacer := id.LocID(uuid.New())
		mockService.EXPECT().MakeVoidAndReplace(gomock.Any(), testOwner, locID, replacer).
			Return(models.ErrReplacerLocWrongType.Domain())

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/void",
			VoidRequest{Replacer: replacer.String()}, testOwner))

		s.assertRejection(w, http.StatusBadRequest, "validation_error", "ReplacerLocWrongType")
	})
}

// =============================================================================
// Collection items
// =============================================================================

func (s *LocHandlerSuite) TestHandleAddCollectionItem() {
	locID := id.LocID(uuid.New())
	itemHex := "0x" + strings.Repeat("ab", 32)

	s.Run("created item returns 201 with location", func() {
		router, mockService := newTestRouter(s.T())
		tcLoc := id.LocID(uuid.New())
		mockService.EXPECT().AddCollectionItem(gomock.Any(), testRequester, gomock.Any()).
			DoAndReturn(func(_ any, _ id.AccountID, cmd service.AddCollectionItemCommand) error {
				s.Equal(locID, cmd.CollectionLocID)
				s.Equal(itemHex, cmd.ItemID.String())
				s.Require().Len(cmd.Files, 1)
				s.Equal("a.pdf", cmd.Files[0].Name)
				s.Require().NotNil(cmd.Token)
				s.Equal("owner", cmd.Token.TokenType)
				s.True(cmd.RestrictedDelivery)
				s.Require().Len(cmd.TermsAndConditions, 1)
				s.Equal(tcLoc, cmd.TermsAndConditions[0].TCLoc)
				return nil
			})

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/items", AddCollectionItemRequest{
			ItemID:             itemHex,
			Description:        "item",
			Files:              []ItemFileRequest{{Name: "a.pdf", ContentType: "application/pdf", Size: 3, Hash: testHashHex}},
			Token:              &ItemTokenRequest{Type: "owner", ID: "0x1"},
			RestrictedDelivery: true,
			TermsAndConditions: []TermsAndConditionsRequest{{Type: "logion_classification", Loc: tcLoc.String()}},
		}, testRequester))

		s.Equal(http.StatusCreated, w.Code)
		s.Equal("/locs/"+locID.String()+"/items/"+itemHex, w.Header().Get("Location"))
	})

	s.Run("limits reached maps to 409 with reason", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().AddCollectionItem(gomock.Any(), testRequester, gomock.Any()).
			Return(models.ErrCollectionLimitsReached.Domain())

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/items",
			AddCollectionItemRequest{ItemID: itemHex, Description: "item"}, testRequester))

		s.assertRejection(w, http.StatusConflict, "conflict", "CollectionLimitsReached")
	})

	s.Run("too many files returns 400", func() {
		router, _ := newTestRouter(s.T())
		files := make([]ItemFileRequest, 101)
		for i := range files {
			files[i] = ItemFileRequest{Hash: testHashHex}
		}

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/items",
			AddCollectionItemRequest{ItemID: itemHex, Files: files}, testRequester))

		s.assertStatusAndError(w, http.StatusBadRequest, "validation_error")
		s.Contains(s.errorBody(w)["error_description"], "too many files")
	})

	s.Run("malformed terms LOC id returns 400", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodPost, "/locs/"+locID.String()+"/items", AddCollectionItemRequest{
			ItemID:             itemHex,
			TermsAndConditions: []TermsAndConditionsRequest{{Type: "t", Loc: "x"}},
		}, testRequester))

		s.assertStatusAndError(w, http.StatusBadRequest, "validation_error")
	})
}

func (s *LocHandlerSuite) TestHandleGetCollectionItem() {
	locID := id.LocID(uuid.New())
	itemID, err := id.ParseCollectionItemID(testHashHex)
	s.Require().NoError(err)

	s.Run("item is returned", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().GetCollectionItem(gomock.Any(), locID, itemID).Return(&models.CollectionItem{
			Description: "item",
			Token:       &models.CollectionItemToken{TokenType: "owner", TokenID: "1"},
		}, nil)

		w := serve(router, newRequest(http.MethodGet, "/locs/"+locID.String()+"/items/"+testHashHex, nil, testOwner))

		s.Equal(http.StatusOK, w.Code)
		var resp CollectionItemResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(itemID, resp.ItemID)
		s.Equal("item", resp.Description)
		s.Require().NotNil(resp.Token)
		s.Equal("owner", resp.Token.Type)
		s.Empty(resp.Files)
	})

	s.Run("unknown item returns 404", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().GetCollectionItem(gomock.Any(), locID, itemID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "collection item not found"))

		w := serve(router, newRequest(http.MethodGet, "/locs/"+locID.String()+"/items/"+testHashHex, nil, testOwner))

		s.assertStatusAndError(w, http.StatusNotFound, "not_found")
	})

	s.Run("malformed item id returns 400", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodGet, "/locs/"+locID.String()+"/items/0x12", nil, testOwner))

		s.assertStatusAndError(w, http.StatusBadRequest, "bad_request")
	})
}

func (s *LocHandlerSuite) TestHandleCollectionSize() {
	router, mockService := newTestRouter(s.T())
	locID := id.LocID(uuid.New())
	mockService.EXPECT().CollectionSize(gomock.Any(), locID).Return(uint32(7), nil)

	w := serve(router, newRequest(http.MethodGet, "/locs/"+locID.String()+"/items", nil, testOwner))

	s.Equal(http.StatusOK, w.Code)
	var resp CollectionSizeResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(uint32(7), resp.Size)
}

// =============================================================================
// Queries
// =============================================================================

func (s *LocHandlerSuite) TestHandleGetLoc() {
	s.Run("void replaced LOC exposes both pointers", func() {
		router, mockService := newTestRouter(s.T())
		locID := id.LocID(uuid.New())
		replacer := id.LocID(uuid.New())
		previous := id.LocID(uuid.New())
		loc := models.NewOpenLoc(testOwner, models.LocRequester{Loc: previous}, models.LocTypeTransaction)
		loc.VoidInfo = &models.VoidInfo{Replacer: &replacer}
		loc.ReplacerOf = &previous
		mockService.EXPECT().GetLoc(gomock.Any(), locID).Return(loc, nil)

		w := serve(router, newRequest(http.MethodGet, "/locs/"+locID.String(), nil, testOwner))

		s.Equal(http.StatusOK, w.Code)
		var resp LocResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Require().NotNil(resp.Void)
		s.Equal(replacer, *resp.Void.Replacer)
		s.Equal(previous, *resp.ReplacerOf)
		s.Equal(models.RequesterKindLoc, resp.Requester.Kind)
		s.Equal(previous, *resp.Requester.Loc)
	})

	s.Run("unknown LOC returns 404", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().GetLoc(gomock.Any(), gomock.Any()).Return(nil, models.ErrNotFound.Domain())

		w := serve(router, newRequest(http.MethodGet, "/locs/"+uuid.NewString(), nil, testOwner))

		s.assertRejection(w, http.StatusNotFound, "not_found", "NotFound")
	})
}

func (s *LocHandlerSuite) TestHandleListAccountLocs() {
	s.Run("empty index returns an empty list", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().ListAccountLocs(gomock.Any(), testRequester).Return(nil, nil)

		w := serve(router, newRequest(http.MethodGet, "/accounts/"+string(testRequester)+"/locs", nil, testOwner))

		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"locs":[]}`, w.Body.String())
	})

	s.Run("store failure returns 500 without description", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().ListAccountLocs(gomock.Any(), testRequester).
			Return(nil, dErrors.New(dErrors.CodeInternal, "connection refused"))

		w := serve(router, newRequest(http.MethodGet, "/accounts/"+string(testRequester)+"/locs", nil, testOwner))

		s.assertStatusAndError(w, http.StatusInternalServerError, "internal_error")
		s.NotContains(w.Body.String(), "connection refused")
	})
}

func (s *LocHandlerSuite) TestHandleListIdentityLocLocs() {
	router, mockService := newTestRouter(s.T())
	identity := id.LocID(uuid.New())
	first := id.LocID(uuid.New())
	second := id.LocID(uuid.New())
	mockService.EXPECT().ListIdentityLocLocs(gomock.Any(), identity).Return([]id.LocID{first, second}, nil)

	w := serve(router, newRequest(http.MethodGet, "/locs/"+identity.String()+"/locs", nil, testOwner))

	s.Equal(http.StatusOK, w.Code)
	var resp LocListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal([]id.LocID{first, second}, resp.Locs)
}

func (s *LocHandlerSuite) TestHandleHasClosedIdentityLocs() {
	authorityA := id.AccountID("5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy")
	authorityB := id.AccountID("5HGjWAeFDfFCWPsjFQdVV2Msvz2XtMktvgocEZcCj68kUMaw")

	s.Run("authorities are parsed from the query", func() {
		router, mockService := newTestRouter(s.T())
		mockService.EXPECT().HasClosedIdentityLocs(gomock.Any(), testRequester, [2]id.AccountID{authorityA, authorityB}).
			Return(true, nil)

		w := serve(router, newRequest(http.MethodGet,
			"/accounts/"+string(testRequester)+"/identity?authorities="+string(authorityA)+",%20"+string(authorityB), nil, testOwner))

		s.Equal(http.StatusOK, w.Code)
		var resp IdentityCheckResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.True(resp.HasClosedIdentityLocs)
		s.Equal([2]id.AccountID{authorityA, authorityB}, resp.Authorities)
	})

	s.Run("one authority returns 400", func() {
		router, _ := newTestRouter(s.T())

		w := serve(router, newRequest(http.MethodGet,
			"/accounts/"+string(testRequester)+"/identity?authorities="+string(authorityA), nil, testOwner))

		s.assertStatusAndError(w, http.StatusBadRequest, "validation_error")
	})
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := chi.NewRouter()
	New(mockService, logger).Register(router)
	return router, mockService
}

// newRequest builds a request with an optional JSON body and an optional caller in context.
func newRequest(method, target string, body any, caller id.AccountID) *http.Request {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := requestcontext.WithRequestID(req.Context(), "test-request")
	if caller != "" {
		ctx = requestcontext.WithCaller(ctx, caller)
	}
	return req.WithContext(ctx)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (s *LocHandlerSuite) errorBody(w *httptest.ResponseRecorder) map[string]string {
	var resp map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// assertStatusAndError asserts both status code and error response in one call.
func (s *LocHandlerSuite) assertStatusAndError(w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	s.Equal(expectedStatus, w.Code)
	s.Equal(expectedCode, s.errorBody(w)["error"])
}

// assertRejection additionally checks the named rule carried in reason.
func (s *LocHandlerSuite) assertRejection(w *httptest.ResponseRecorder, expectedStatus int, expectedCode, expectedReason string) {
	s.assertStatusAndError(w, expectedStatus, expectedCode)
	s.Equal(expectedReason, s.errorBody(w)["reason"])
}
