package resourcetests

// DoExistingResourceTests fetches every representation of the resource in contract order and
// checks each response against its row of the contract.
func DoExistingResourceTests(t *T) {
	contract := t.Contract()
	for _, rep := range contract.Representations {
		t.Debug("checking representation %s", describeSuffix(rep.Suffix))
		resp := t.Navigate(contract.ResourceURLPath(rep.Suffix))
		t.AssertRepresentation(resp, rep)
	}
}
