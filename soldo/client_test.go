package soldo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/resource"
)

type fakeServer struct {
	mu      sync.Mutex
	lists   map[string]func(query url.Values) (resource.Value, error)
	gets    map[string]resource.Value
	updated map[string]*resource.Object
	listLog []string
	getErr  error
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		lists:   map[string]func(url.Values) (resource.Value, error){},
		gets:    map[string]resource.Value{},
		updated: map[string]*resource.Object{},
	}
}

func (f *fakeServer) List(_ context.Context, collectionPath string, query url.Values) (resource.Value, error) {
	f.mu.Lock()
	f.listLog = append(f.listLog, collectionPath+"?"+query.Encode())
	handler, ok := f.lists[collectionPath]
	f.mu.Unlock()
	if !ok {
		return nil, faults.NewTypedError(faults.NotFoundError, "no list "+collectionPath, nil)
	}
	return handler(query)
}

func (f *fakeServer) Get(_ context.Context, resourcePath string) (resource.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	value, ok := f.gets[resourcePath]
	if !ok {
		return nil, faults.NewTypedError(faults.NotFoundError, "no item "+resourcePath, nil)
	}
	return value, nil
}

func (f *fakeServer) Update(_ context.Context, resourcePath string, body *resource.Object) (resource.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[resourcePath] = body
	response := map[string]any{"id": "updated"}
	for _, key := range body.Keys() {
		response[key] = body.Get(key)
	}
	return response, nil
}

func envelope(total, pages, pageSize, currentPage int, results ...any) map[string]any {
	return map[string]any{
		"total":        total,
		"pages":        pages,
		"page_size":    pageSize,
		"current_page": currentPage,
		"results_size": len(results),
		"results":      results,
	}
}

func mustClient(t *testing.T, fake *fakeServer, opts ...Option) *Client {
	t.Helper()

	client, err := New(fake, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRegistryCatalogue(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}

	tests := []struct {
		kind     string
		basePath string
	}{
		{kind: KindWallet, basePath: "/wallets"},
		{kind: KindCard, basePath: "/cards"},
		{kind: KindRule, basePath: "/rules"},
		{kind: KindEmployee, basePath: "/employees"},
		{kind: KindExpenseCentre, basePath: "/expensecentres"},
		{kind: KindCompany, basePath: "/company"},
		{kind: KindTransaction, basePath: "/transactions"},
	}
	for _, test := range tests {
		got, err := registry.BasePath(test.kind)
		if err != nil {
			t.Fatalf("BasePath(%s) returned error: %v", test.kind, err)
		}
		if got != test.basePath {
			t.Fatalf("expected %s base path %s, got %s", test.kind, test.basePath, got)
		}
	}

	company, _ := registry.Kind(KindCompany)
	if !company.IsSingleton() {
		t.Fatal("expected Company to be a singleton")
	}
	employee, _ := registry.Kind(KindEmployee)
	if !employee.Whitelisted("job_title") || employee.Whitelisted("name") {
		t.Fatalf("unexpected employee whitelist %#v", employee.WhiteList)
	}

	if _, err := NewRegistry(resource.Kind{Name: KindCard, BasePath: "/x"}); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected duplicate kind to be rejected, got %v", err)
	}
}

func TestNewRequiresServer(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetCollection(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	fake.lists["/wallets"] = func(query url.Values) (resource.Value, error) {
		return envelope(2, 1, 50, 0,
			map[string]any{"id": "W1", "currency_code": "EUR"},
			map[string]any{"id": "W2", "currency_code": "GBP"},
		), nil
	}
	client := mustClient(t, fake)

	collection, err := client.GetCollection(context.Background(), KindWallet, url.Values{"type": {"company"}})
	if err != nil {
		t.Fatalf("GetCollection returned error: %v", err)
	}
	if collection.Total() != 2 || len(collection.Items()) != 2 {
		t.Fatalf("unexpected collection total=%d items=%d", collection.Total(), len(collection.Items()))
	}
	if collection.Items()[1].Get("currency_code") != "GBP" {
		t.Fatalf("unexpected second item %#v", collection.Items()[1].ToMap())
	}
	if fake.listLog[0] != "/wallets?type=company" {
		t.Fatalf("unexpected list call %q", fake.listLog[0])
	}

	wallets, err := client.GetWallets(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetWallets returned error: %v", err)
	}
	if len(wallets) != 2 || wallets[0].KindName() != KindWallet {
		t.Fatalf("unexpected wallets %#v", wallets)
	}
}

func TestGetCollectionRejectsInvalidEnvelope(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	fake.lists["/cards"] = func(url.Values) (resource.Value, error) {
		broken := envelope(3, 1, 50, 0, map[string]any{"id": "C1"})
		broken["results_size"] = 3
		return broken, nil
	}
	client := mustClient(t, fake)

	_, err := client.GetCards(context.Background(), nil)
	if !faults.IsCategory(err, faults.InvalidCollectionError) {
		t.Fatalf("expected InvalidCollectionError, got %v", err)
	}

	_, err = client.GetCollection(context.Background(), "Planet", nil)
	if !faults.IsCategory(err, faults.InvalidClassError) {
		t.Fatalf("expected InvalidClassError, got %v", err)
	}
}

func TestGetAllItemsWalksPagesInOrder(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	fake.lists["/transactions"] = func(query url.Values) (resource.Value, error) {
		page, _ := strconv.Atoi(query.Get(QueryPage))
		if query.Get("status") != "Settled" || query.Get(QueryPageSize) != "2" {
			return nil, fmt.Errorf("unexpected query %q", query.Encode())
		}
		switch page {
		case 0, 1:
			return envelope(5, 3, 2, page,
				map[string]any{"id": fmt.Sprintf("T%d", page*2)},
				map[string]any{"id": fmt.Sprintf("T%d", page*2+1)},
			), nil
		case 2:
			return envelope(5, 3, 2, page, map[string]any{"id": "T4"}), nil
		}
		return nil, errors.New("page out of range")
	}
	client := mustClient(t, fake, WithPageConcurrency(2))

	items, err := client.GetAllItems(context.Background(), KindTransaction, url.Values{"status": {"Settled"}, QueryPageSize: {"2"}})
	if err != nil {
		t.Fatalf("GetAllItems returned error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	for idx, item := range items {
		if want := fmt.Sprintf("T%d", idx); item.Get("id") != want {
			t.Fatalf("expected item %d to be %s, got %v", idx, want, item.Get("id"))
		}
	}
	if len(fake.listLog) != 3 {
		t.Fatalf("expected 3 list calls, got %v", fake.listLog)
	}
}

func TestGetAllItemsPropagatesPageFailure(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	fake.lists["/employees"] = func(query url.Values) (resource.Value, error) {
		if query.Get(QueryPage) == "0" {
			return envelope(4, 2, 2, 0, map[string]any{"id": "E0"}, map[string]any{"id": "E1"}), nil
		}
		return nil, faults.NewTypedError(faults.TransportError, "boom", nil)
	}
	client := mustClient(t, fake)

	_, err := client.GetAllItems(context.Background(), KindEmployee, nil)
	if !faults.IsCategory(err, faults.TransportError) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestGetAllItemsRejectsPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		first map[string]any
	}{
		{name: "pages_overflow", first: envelope(5, math.MaxInt64, 2, 0, map[string]any{"id": "T0"}, map[string]any{"id": "T1"})},
		{name: "pages_disagree_with_total", first: envelope(5, 40, 2, 0, map[string]any{"id": "T0"}, map[string]any{"id": "T1"})},
		{name: "too_many_pages", first: envelope(2*(MaxPages+1), MaxPages+1, 2, 0, map[string]any{"id": "T0"}, map[string]any{"id": "T1"})},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			fake := newFakeServer()
			fake.lists["/transactions"] = func(query url.Values) (resource.Value, error) {
				if query.Get(QueryPage) != "0" {
					return nil, fmt.Errorf("unexpected page request %q", query.Encode())
				}
				return test.first, nil
			}
			client := mustClient(t, fake)

			_, err := client.GetAllItems(context.Background(), KindTransaction, nil)
			if !faults.IsCategory(err, faults.InvalidCollectionError) {
				t.Fatalf("expected InvalidCollectionError, got %v", err)
			}
			if len(fake.listLog) != 1 {
				t.Fatalf("expected only the first page to be requested, got %v", fake.listLog)
			}
		})
	}
}

func TestGetItem(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	fake.gets["/employees/EMP+1"] = map[string]any{"id": "EMP 1", "name": "Ada"}
	fake.gets["/company"] = map[string]any{"name": "Acme", "vat_number": "IT01"}
	fake.gets["/rules/weekend"] = map[string]any{"name": "weekend", "enabled": true}
	client := mustClient(t, fake)

	employee, err := client.GetEmployee(context.Background(), "EMP 1")
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if employee.Get("name") != "Ada" {
		t.Fatalf("unexpected employee %#v", employee.ToMap())
	}

	company, err := client.GetCompany(context.Background())
	if err != nil {
		t.Fatalf("GetCompany returned error: %v", err)
	}
	if company.Get("vat_number") != "IT01" {
		t.Fatalf("unexpected company %#v", company.ToMap())
	}

	rule, err := client.GetItem(context.Background(), KindRule, "weekend")
	if err != nil {
		t.Fatalf("GetItem(Rule) returned error: %v", err)
	}
	if rule.Get("enabled") != true {
		t.Fatalf("unexpected rule %#v", rule.ToMap())
	}

	_, err = client.GetWallet(context.Background(), "")
	if !faults.IsCategory(err, faults.InvalidPathError) {
		t.Fatalf("expected InvalidPathError for missing id, got %v", err)
	}

	_, err = client.GetCard(context.Background(), "missing")
	if !faults.IsCategory(err, faults.NotFoundError) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestGetItemRejectsMalformedResponse(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	fake.gets["/wallets/W1"] = []any{"not", "a", "dataset"}
	client := mustClient(t, fake)

	_, err := client.GetWallet(context.Background(), "W1")
	if !faults.IsCategory(err, faults.MalformedInputError) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
}

func TestUpdateItemSendsWhitelistedAttributes(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	client := mustClient(t, fake)

	updated, err := client.UpdateEmployee(context.Background(), "E1", map[string]any{
		"email":      "ada@example.com",
		"name":       "ignored",
		"department": "Research",
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	body := fake.updated["/employees/E1"]
	if body == nil {
		t.Fatal("expected update call on /employees/E1")
	}
	if got := body.Keys(); len(got) != 2 || got[0] != "department" || got[1] != "email" {
		t.Fatalf("expected whitelisted keys [department email], got %v", got)
	}
	if updated.Get("email") != "ada@example.com" {
		t.Fatalf("unexpected updated resource %#v", updated.ToMap())
	}

	_, err = client.UpdateExpenseCentre(context.Background(), "X1", map[string]any{"name": "nope"})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected ValidationError for empty update, got %v", err)
	}
	if _, exists := fake.updated["/expensecentres/X1"]; exists {
		t.Fatal("expected empty update not to reach the server")
	}

	_, err = client.UpdateEmployee(context.Background(), "E1", "garbage")
	if !faults.IsCategory(err, faults.MalformedInputError) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
}

func TestGetCardRules(t *testing.T) {
	t.Parallel()

	fake := newFakeServer()
	fake.gets["/cards/C1/rules"] = map[string]any{
		"rules": []any{
			map[string]any{"name": "OpenCloseMasterLock", "enabled": true},
			map[string]any{"name": "Online", "enabled": false},
		},
	}
	fake.gets["/cards/C2/rules"] = map[string]any{"items": []any{}}
	client := mustClient(t, fake)

	rules, err := client.GetCardRules(context.Background(), "C1")
	if err != nil {
		t.Fatalf("GetCardRules returned error: %v", err)
	}
	if len(rules) != 2 || rules[0].KindName() != KindRule || rules[1].Get("name") != "Online" {
		t.Fatalf("unexpected rules %#v", rules)
	}
	remotePath, err := rules[0].RemotePath()
	if err != nil || remotePath != "/rules/OpenCloseMasterLock" {
		t.Fatalf("unexpected rule remote path %q (%v)", remotePath, err)
	}

	_, err = client.GetCardRules(context.Background(), "C2")
	if !faults.IsCategory(err, faults.InvalidRelationshipError) {
		t.Fatalf("expected InvalidRelationshipError, got %v", err)
	}

	_, err = client.GetRelationship(context.Background(), KindWallet, "W1", RelationshipRules)
	if !faults.IsCategory(err, faults.InvalidRelationshipError) {
		t.Fatalf("expected InvalidRelationshipError for undefined relationship, got %v", err)
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	query := url.Values{"type": {"card"}}
	paged := Page(query, 3, 25)
	if paged.Get(QueryPage) != "3" || paged.Get(QueryPageSize) != "25" || paged.Get("type") != "card" {
		t.Fatalf("unexpected paged query %q", paged.Encode())
	}
	if query.Get(QueryPage) != "" {
		t.Fatal("expected Page not to mutate its input")
	}
	if got := Page(nil, 0, 0).Encode(); got != "p=0" {
		t.Fatalf("unexpected query %q", got)
	}
}
