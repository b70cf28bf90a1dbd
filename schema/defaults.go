package schema

// DefaultSteps returns the generic step sequence used when a service has
// no usable remote workflow.
func DefaultSteps() []Step {
	return []Step{
		{Number: 1, Type: TypeQuantity, Name: "Quantity"},
		{Number: 2, Type: TypeFiles, Name: "Files"},
		{Number: 3, Type: TypeNotes, Name: "Notes"},
		{Number: 4, Type: TypeCustomerInfo, Name: "Customer information"},
		{Number: 5, Type: TypeInvoice, Name: "Review"},
	}
}
