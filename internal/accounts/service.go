package accounts

import "github.com/bankledger-dev/bankledger/internal/model"

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byName   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byName := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byName[a.Name] = a
	}
	return &Service{accounts: accounts, byName: byName}
}

// Default returns a Service over DefaultChart.
func Default() *Service {
	return NewService(DefaultChart())
}

// All returns all accounts in chart order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by name.
func (s *Service) Get(name string) (model.Account, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Exists reports whether an account name exists.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ByCategory returns all accounts of the given category in chart order.
func (s *Service) ByCategory(category model.Category) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Category == category {
			result = append(result, a)
		}
	}
	return result
}

// CashAccounts returns the accounts that feed the cash-flow statement.
func (s *Service) CashAccounts() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Cash {
			result = append(result, a)
		}
	}
	return result
}

// IsCash reports whether name is a cash account.
func (s *Service) IsCash(name string) bool {
	a, ok := s.byName[name]
	return ok && a.Cash
}
