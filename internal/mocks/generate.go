// Package mocks provides gomock implementations of the marketplace ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	searcher := mocks.NewMockPropertySearcher(ctrl)
//	searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Return(page, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=property_searcher_mock.go github.com/dietiestates/estates-web/internal/ports PropertySearcher

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=visit_client_mock.go github.com/dietiestates/estates-web/internal/ports VisitClient

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=offer_client_mock.go github.com/dietiestates/estates-web/internal/ports OfferClient
