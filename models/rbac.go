package models

type RbacFunc func(actor Actor, path string) bool

type Module string

const (
	ApplicationModule Module = "APPLICATION"
	ApprovalModule    Module = "APPROVAL"
	DateChangeModule  Module = "DATE_CHANGE"
	DirectoryModule   Module = "DIRECTORY"
	ExportModule      Module = "EXPORT"
	AdminModule       Module = "ADMIN"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	ViewPermission   Permission = "VIEW"
	FlowPermission   Permission = "FLOW"
	ManagePermission Permission = "MANAGE"
)
