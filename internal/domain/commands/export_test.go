package commands

// OwningPackage exports owningPackage for testing.
var OwningPackage = owningPackage //nolint:gochecknoglobals // test export

// AffectedPackages exports affectedPackages for testing.
var AffectedPackages = affectedPackages //nolint:gochecknoglobals // test export
