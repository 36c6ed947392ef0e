// Package naming provides the naming conventions for OpenStack resources the
// operator creates on behalf of a project.
//
// Child resources derive their names from the owning project or network so
// they can be found again by name when a tracking record is missing.
package naming
