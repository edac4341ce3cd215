package catalog_repo

import (
	"bizerp/internal/domain/bins"
	"bizerp/internal/domain/catalogs/brands"
	"bizerp/internal/domain/catalogs/customers"
	"bizerp/internal/domain/catalogs/manufacturers"
	"bizerp/internal/domain/catalogs/vendors"
	"bizerp/internal/domain/expenses"
	"bizerp/internal/domain/insights"
	"bizerp/internal/domain/tasks"
	"bizerp/internal/infrastructure/storage/postgres"
)

var partySearch = []string{"name", "email", "phone", "gstin"}

// NewVendorRepo creates the vendor repository.
func NewVendorRepo(q postgres.Querier) vendors.Repository {
	return NewBaseCatalogRepo[*vendors.Vendor](q, Table{
		Name: "vendors", Entity: "vendor", Search: partySearch, DefaultOrder: "name ASC",
	})
}

// NewCustomerRepo creates the customer repository.
func NewCustomerRepo(q postgres.Querier) customers.Repository {
	return NewBaseCatalogRepo[*customers.Customer](q, Table{
		Name: "customers", Entity: "customer", Search: partySearch, DefaultOrder: "name ASC",
	})
}

// NewManufacturerRepo creates the manufacturer repository.
func NewManufacturerRepo(q postgres.Querier) manufacturers.Repository {
	return NewBaseCatalogRepo[*manufacturers.Manufacturer](q, Table{
		Name: "manufacturers", Entity: "manufacturer", Search: []string{"name"}, DefaultOrder: "name ASC",
	})
}

// NewBrandRepo creates the brand repository.
func NewBrandRepo(q postgres.Querier) brands.Repository {
	return NewBaseCatalogRepo[*brands.Brand](q, Table{
		Name: "brands", Entity: "brand", Search: []string{"name"}, DefaultOrder: "name ASC",
	})
}

// NewBinLocationRepo creates the bin location repository.
func NewBinLocationRepo(q postgres.Querier) bins.LocationRepository {
	return NewBaseCatalogRepo[*bins.BinLocation](q, Table{
		Name: "bin_locations", Entity: "bin location",
		Search: []string{"bin_code", "warehouse"}, DefaultOrder: "bin_code ASC",
	})
}

// NewExpenseRepo creates the expense repository.
func NewExpenseRepo(q postgres.Querier) expenses.Repository {
	return NewBaseCatalogRepo[*expenses.Expense](q, Table{
		Name: "expenses", Entity: "expense",
		Search: []string{"category", "description", "vendor_name"}, DefaultOrder: "expense_date DESC",
	})
}

// NewTaskRepo creates the task repository.
func NewTaskRepo(q postgres.Querier) tasks.Repository {
	return NewBaseCatalogRepo[*tasks.Task](q, Table{
		Name: "tasks", Entity: "task", Search: []string{"title", "description"},
	})
}

// NewInsightRepo creates the insight repository.
func NewInsightRepo(q postgres.Querier) insights.Repository {
	return NewBaseCatalogRepo[*insights.Insight](q, Table{
		Name: "ai_insights", Entity: "insight", Search: []string{"title", "message"},
	})
}
