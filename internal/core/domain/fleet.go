package domain

import "time"

// Vehicle belongs to exactly one tenant.
type Vehicle struct {
	ID          string    `json:"id"`
	PlateNumber string    `json:"plate_number"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	TenantName  string    `json:"tenant_name"`
	DriverID    string    `json:"driver_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Driver belongs to exactly one tenant.
type Driver struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	PhoneNumber   string    `json:"phone_number"`
	LicenseNumber string    `json:"license_number"`
	NationalID    string    `json:"national_id"`
	TenantName    string    `json:"tenant_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// Company is reference data about a tenant organisation. Accounts carry the
// tenant name directly rather than a foreign key to this record.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
