// Package orderstatus implements the order status form component: the
// received / lost / on-hold selector, the field group shown for each choice,
// and the bridge that forwards every field change to the owner of the form
// data.
//
// The component never stores form values itself. Hosts pass a FormData to
// read from and a ChangeFunc that receives one Update per user edit, in event
// order. Dropdown options are loaded once per Mount through a
// dropdowns.Loader.
package orderstatus
