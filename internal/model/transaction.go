package model

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

// Transaction directions.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// CustomerType records how a guest arrived at the property.
type CustomerType string

// Guest origination channels.
const (
	CustomerWalkIn  CustomerType = "Walk-in"
	CustomerBooking CustomerType = "Booking"
	CustomerCheckIn CustomerType = "Check-in"
)

// Transaction categories. The category set is open (imports and OCR may
// produce strings outside this list); these are the bookkeeping defaults
// offered at the CLI and steered toward by the OCR prompt.
const (
	// Income categories.
	CategoryRoomRevenue  = "ค่าห้องพัก"
	CategoryFoodBeverage = "อาหารและเครื่องดื่ม"
	CategorySpaService   = "สปาและนวด"
	CategoryOtherIncome  = "รายได้อื่นๆ"

	// Expense categories.
	CategoryUtilities        = "ค่าสาธารณูปโภค (น้ำ/ไฟ/เน็ต)"
	CategoryStaffSalary      = "เงินเดือนและค่าแรง"
	CategoryMarketing        = "การตลาด/ค่าคอมมิชชั่น OTA"
	CategoryMaintenance      = "ค่าซ่อมบำรุง"
	CategorySupplies         = "วัสดุอุปกรณ์/เครื่องใช้"
	CategoryTaxFee           = "ภาษีและค่าธรรมเนียม"
	CategorySoftware         = "ค่าซอฟต์แวร์/แอปพลิเคชัน"
	CategoryOfficeSupplies   = "วัสดุสำนักงาน"
	CategoryCleaningSupplies = "วัสดุทำความสะอาด"
)

// IncomeCategories lists the default income categories in display order.
func IncomeCategories() []string {
	return []string{CategoryRoomRevenue, CategoryFoodBeverage, CategorySpaService, CategoryOtherIncome}
}

// ExpenseCategories lists the default expense categories in display order.
func ExpenseCategories() []string {
	return []string{
		CategoryUtilities, CategoryStaffSalary, CategoryMarketing, CategoryMaintenance,
		CategorySupplies, CategoryTaxFee, CategorySoftware, CategoryOfficeSupplies,
		CategoryCleaningSupplies,
	}
}

// Transaction is one financial event in the ledger. Records are append-only:
// after creation only IsReconciled may change, until the record is deleted.
type Transaction struct {
	Date           time.Time
	GuestData      *GuestData
	ID             string
	Category       string
	Description    string
	ImageURL       string // evidence image, if captured
	PMSReferenceID string // free-text correlation to a booking or room, not a key
	Type           TransactionType
	CustomerType   CustomerType
	Amount         float64
	IsReconciled   bool
}
