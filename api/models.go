package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// ID is a resource identifier. The API sends some ids as numbers and others
// as strings; both decode.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Int returns id as a number, or 0 when it is not numeric.
func (id ID) Int() int {
	n, _ := strconv.Atoi(string(id))
	return n
}

func (id ID) String() string { return string(id) }

// SelectOption is a select option projected from a list item.
type SelectOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Named is a catalog entry such as a status, account type or payment method.
type Named struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Person is the short form of a user or customer embedded in other resources.
type Person struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

func (p Person) FullName() string {
	return p.Name + " " + p.LastName
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country,omitempty"`
}

// Message is the acknowledgement body of password and disable operations.
type Message struct {
	Message string `json:"message"`
}

// Sede is a clinic location.
type Sede struct {
	ID      ID       `json:"id"`
	Name    string   `json:"name"`
	Image   string   `json:"image,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// Role is an entry of the role catalog.
type Role struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Account is the login record of a user or customer.
type Account struct {
	ID            ID         `json:"id"`
	TimesLoggedIn int        `json:"timesLoggedIn"`
	LastAccess    *time.Time `json:"lastAccess,omitempty"`
	Email         string     `json:"email"`
	Type          Named      `json:"type"`
	Rol           Role       `json:"rol"`
	Status        Named      `json:"status"`
}

type User struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	LastName  string     `json:"lastName"`
	Image     *string    `json:"image"`
	Sede      *Sede      `json:"sede,omitempty"`
	Session   *Account   `json:"session,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

// DepilatoryMachine is a laser machine assigned to a sede.
type DepilatoryMachine struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Sede *Sede  `json:"sede,omitempty"`
}

type Customer struct {
	ID        ID       `json:"id"`
	Name      string   `json:"name"`
	LastName  string   `json:"lastName"`
	BirthDate string   `json:"birthDate"`
	Cedula    string   `json:"cedula"`
	Phone     string   `json:"phone"`
	SkinType  string   `json:"skinType"`
	HairColor string   `json:"hairColor"`
	Image     string   `json:"image,omitempty"`
	Address   *Address `json:"address,omitempty"`
	Session   *Account `json:"session,omitempty"`
	Sede      *Sede    `json:"sede,omitempty"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type Treatment struct {
	ID                    ID                 `json:"id"`
	Datetime              time.Time          `json:"datetime"`
	TreatedArea           string             `json:"treatedArea"`
	Session               string             `json:"session"`
	InvoiceNumber         string             `json:"invoiceNumber"`
	Amount                float64            `json:"amount"`
	BalanceDue            float64            `json:"balanceDue"`
	IsComplete            bool               `json:"isComplete"`
	MachineInitialCounter string             `json:"machineInitialCounter"`
	MachineFinalCounter   string             `json:"machineFinalCounter"`
	Sede                  *Sede              `json:"sede,omitempty"`
	Specialist            *Person            `json:"specialist,omitempty"`
	Customer              *Person            `json:"customer,omitempty"`
	Machine               *DepilatoryMachine `json:"depilatory_machine,omitempty"`
	Payments              []Payment          `json:"payments,omitempty"`
}

type Payment struct {
	ID            ID        `json:"id"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	DateOfPayment time.Time `json:"dateOfPayment"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Sede          *Sede     `json:"sede,omitempty"`
	PaymentMethod *Named    `json:"paymentMethod,omitempty"`
	UserReceiver  *Person   `json:"userReceiver,omitempty"`
	Treatment     *Named    `json:"treatment,omitempty"`
	Customer      *Person   `json:"customer,omitempty"`
}

// Prices of a treated area, or of one of its monthly promotions.
type Prices struct {
	PackageAmount    float64 `json:"packageAmount"`
	AmountPackOfFour float64 `json:"amountPackOfFour"`
	IndividualPrice  float64 `json:"individualPrice"`
}

type TreatedArea struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Prices
	MonthlyPromotions []MonthlyPromotion `json:"monthlyPromotion,omitempty"`
}

type MonthlyPromotion struct {
	ID        ID        `json:"id"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Prices
	TreatedArea *Named `json:"treatedArea,omitempty"`
}

type UsersMetadata struct {
	TotalUsers  int `json:"totalUsers"`
	ActiveUsers int `json:"activeUsers"`
	NewUsers    int `json:"newUsers"`
}

type CustomersMetadata struct {
	TotalCustomers  int `json:"totalCustomers"`
	ActiveCustomers int `json:"activeCustomers"`
	NewCustomers    int `json:"newCustomers"`
}

type RolesMetadata struct {
	TotalRoles int `json:"totalRoles"`
}
