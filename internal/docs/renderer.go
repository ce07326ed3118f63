// Package docs renders printable front-desk documents as styled text: the
// guest registration form (ror ror 3), the deposit receipt, and the tax
// invoice. Rendering is purely downstream of the stores; nothing here
// mutates state.
package docs

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/service"
)

const docWidth = 64

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center).
			Width(docWidth)

	subheaderStyle = lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(docWidth).
			Foreground(lipgloss.Color("#666666"))

	labelStyle = lipgloss.NewStyle().
			Width(22).
			Foreground(lipgloss.Color("#888888"))

	amountStyle = lipgloss.NewStyle().
			Bold(true)

	docFrame = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1, 2).
			Width(docWidth + 6)

	ruleLine = strings.Repeat("-", docWidth)
)

// Renderer produces documents branded with the property's settings.
type Renderer struct {
	settings service.Settings
}

// NewRenderer creates a document renderer for the given property.
func NewRenderer(settings service.Settings) *Renderer {
	return &Renderer{settings: settings}
}

func (r *Renderer) propertyHeader(title string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(r.settings.PropertyName))
	b.WriteString("\n")
	b.WriteString(subheaderStyle.Render(r.settings.PropertyAddress))
	b.WriteString("\n")
	b.WriteString(subheaderStyle.Render("โทร. " + r.settings.Phone + "  เลขประจำตัวผู้เสียภาษี " + r.settings.TaxID))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ruleLine)
	b.WriteString("\n")
	return b.String()
}

func field(label, value string) string {
	if value == "" {
		value = "............................."
	}
	return labelStyle.Render(label) + value + "\n"
}

func baht(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	intPart, fracPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	out := strings.Join(groups, ",") + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out + " บาท"
}

// RegistrationForm renders the guest registration form required for the
// hotel registry book (ror ror 3).
func (r *Renderer) RegistrationForm(booking model.Booking) string {
	var b strings.Builder
	b.WriteString(r.propertyHeader("ใบลงทะเบียนผู้เข้าพัก (ร.ร.3)"))

	guest := booking.GuestDetails
	if guest == nil {
		guest = &model.GuestData{}
	}

	name := guest.FullNameTH()
	if name == "" {
		name = booking.GuestName
	}

	b.WriteString(field("ชื่อ-นามสกุล", strings.TrimSpace(guest.Title+" "+name)))
	b.WriteString(field("Name (EN)", strings.TrimSpace(guest.FirstNameEN+" "+guest.LastNameEN)))
	b.WriteString(field("เลขบัตรประชาชน", guest.IDNumber))
	b.WriteString(field("วันเกิด", guest.DOB))
	b.WriteString(field("ที่อยู่", guest.Address))
	b.WriteString(field("โทรศัพท์", guest.Phone))
	b.WriteString(ruleLine + "\n")
	b.WriteString(field("ห้องพัก", booking.RoomNumber))
	b.WriteString(field("วันที่เข้าพัก", model.FormatDate(booking.CheckIn)))
	b.WriteString(field("วันที่ออก", model.FormatDate(booking.CheckOut)))
	b.WriteString(field("จำนวนคืน", fmt.Sprintf("%d", booking.Nights)))
	b.WriteString(field("หมายเลขการจอง", booking.ID))
	b.WriteString("\n")
	b.WriteString(field("ลายมือชื่อผู้เข้าพัก", ""))

	return docFrame.Render(strings.TrimRight(b.String(), "\n"))
}

// DepositReceipt renders a receipt for the booking deposit.
func (r *Renderer) DepositReceipt(booking model.Booking, issuedAt time.Time) string {
	var b strings.Builder
	b.WriteString(r.propertyHeader("ใบรับเงินมัดจำ"))

	b.WriteString(field("วันที่", model.FormatDate(issuedAt)))
	b.WriteString(field("อ้างอิงการจอง", booking.ID))
	b.WriteString(field("ได้รับเงินจาก", booking.GuestName))
	b.WriteString(field("ห้องพัก", booking.RoomNumber))
	b.WriteString(field("เข้าพัก", model.FormatDate(booking.CheckIn)+" ถึง "+model.FormatDate(booking.CheckOut)))
	b.WriteString(ruleLine + "\n")
	b.WriteString(field("ยอดรวมทั้งหมด", baht(booking.TotalAmount)))
	b.WriteString(labelStyle.Render("เงินมัดจำ (30%)") + amountStyle.Render(baht(booking.DepositAmount)) + "\n")
	b.WriteString(field("ยอดคงเหลือชำระ", baht(booking.TotalAmount-booking.DepositAmount)))
	b.WriteString("\n")
	b.WriteString(field("ผู้รับเงิน", ""))

	return docFrame.Render(strings.TrimRight(b.String(), "\n"))
}

// VAT rate for tax invoices. Room charges are treated as VAT-inclusive.
const vatRate = 0.07

// TaxInvoice renders a tax invoice for a recorded income transaction.
func (r *Renderer) TaxInvoice(txn model.Transaction, invoiceNumber string) string {
	var b strings.Builder
	b.WriteString(r.propertyHeader("ใบกำกับภาษี / ใบเสร็จรับเงิน"))

	// VAT-inclusive breakout: base = total / 1.07.
	base := txn.Amount / (1 + vatRate)
	vat := txn.Amount - base

	customer := txn.Description
	if txn.GuestData != nil && txn.GuestData.FullNameTH() != "" {
		customer = txn.GuestData.FullNameTH()
	}

	b.WriteString(field("เลขที่", invoiceNumber))
	b.WriteString(field("วันที่", model.FormatDate(txn.Date)))
	b.WriteString(field("ลูกค้า", customer))
	b.WriteString(field("รายการ", txn.Category))
	b.WriteString(field("อ้างอิง", txn.PMSReferenceID))
	b.WriteString(ruleLine + "\n")
	b.WriteString(field("มูลค่าสินค้า/บริการ", baht(base)))
	b.WriteString(field("ภาษีมูลค่าเพิ่ม 7%", baht(vat)))
	b.WriteString(labelStyle.Render("รวมทั้งสิ้น") + amountStyle.Render(baht(txn.Amount)) + "\n")
	b.WriteString("\n")
	b.WriteString(field("ผู้ออกใบกำกับภาษี", ""))

	return docFrame.Render(strings.TrimRight(b.String(), "\n"))
}
