package view

// ShowError replaces the error region content with message
func ShowError(doc *Document, message string) {
	doc.replaceChildren(ErrorID, appendChildren(element("p"), text(message)))
}

func ClearError(doc *Document) {
	doc.replaceChildren(ErrorID)
}

// ErrorMessage returns the text currently displayed in the error region
func ErrorMessage(doc *Document) string {
	region := doc.ElementByID(ErrorID)
	if region == nil {
		return ""
	}

	return TextContent(region)
}
