package core

// Category is a closed set of transaction tags.
type Category string

const (
	CategorySalary        Category = "salary"
	CategoryFreelance     Category = "freelance"
	CategoryInvestment    Category = "investment"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryBills         Category = "bills"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryRent          Category = "rent"
	CategoryOther         Category = "other"
)

// CategoryKind tells which transaction type a category is offered for.
type CategoryKind string

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
	KindAny     CategoryKind = "any"
)

// CategoryDescriptor holds the presentation attributes of a category.
type CategoryDescriptor struct {
	Category Category     `json:"category"`
	Label    string       `json:"label"`
	Emoji    string       `json:"emoji"`
	Color    string       `json:"color"`
	Kind     CategoryKind `json:"kind"`
}

// categoryTable is ordered the way pickers list categories.
var categoryTable = [...]CategoryDescriptor{
	{CategorySalary, "Salary", "💰", "#22c55e", KindIncome},
	{CategoryFreelance, "Freelance", "💼", "#10b981", KindIncome},
	{CategoryInvestment, "Investment", "📈", "#14b8a6", KindIncome},
	{CategoryFood, "Food & Dining", "🍔", "#f97316", KindExpense},
	{CategoryTransport, "Transport", "🚗", "#3b82f6", KindExpense},
	{CategoryShopping, "Shopping", "🛍️", "#ec4899", KindExpense},
	{CategoryBills, "Bills & Utilities", "💡", "#eab308", KindExpense},
	{CategoryEntertainment, "Entertainment", "🎬", "#8b5cf6", KindExpense},
	{CategoryHealth, "Health", "🏥", "#ef4444", KindExpense},
	{CategoryEducation, "Education", "📚", "#6366f1", KindExpense},
	{CategoryRent, "Rent", "🏠", "#a855f7", KindExpense},
	{CategoryOther, "Other", "📦", "#6b7280", KindAny},
}

var categoryIndex = func() map[Category]int {
	idx := make(map[Category]int, len(categoryTable))
	for i, d := range categoryTable {
		idx[d.Category] = i
	}
	return idx
}()

// Categories returns every category descriptor in display order.
func Categories() []CategoryDescriptor {
	out := make([]CategoryDescriptor, len(categoryTable))
	copy(out, categoryTable[:])
	return out
}

// CategoriesFor returns the categories offered for a transaction type.
func CategoriesFor(t TransactionType) []CategoryDescriptor {
	var out []CategoryDescriptor
	for _, d := range categoryTable {
		if d.Kind == KindAny || string(d.Kind) == string(t) {
			out = append(out, d)
		}
	}
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryIndex[c]
	return ok
}

// Descriptor returns the descriptor of c.
func (c Category) Descriptor() (CategoryDescriptor, bool) {
	i, ok := categoryIndex[c]
	if !ok {
		return CategoryDescriptor{}, false
	}
	return categoryTable[i], true
}

// Label returns the human label of c, falling back to the raw value for
// categories that are not in the table.
func (c Category) Label() string {
	if d, ok := c.Descriptor(); ok {
		return d.Label
	}
	return string(c)
}
