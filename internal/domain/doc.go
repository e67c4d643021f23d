// Package domain contains the core entities of the flashdeck scheduling
// service and their validation rules. Entities are plain structs; all
// scheduling arithmetic lives in the srs and health subpackages.
package domain
