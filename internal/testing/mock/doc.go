// Package mock provides a fake SoftLayer REST API for testing slcli
// components end to end.
//
// APIServer is an httptest server that answers
// {Service}[/{ID}]/{Method}.json requests from registered handlers and
// records every call, so tests can assert which remote procedures ran, with
// which object ID, mask, filter and parameters, and how often.
//
// Responses can be registered in Go:
//
//	api := mock.NewAPIServer(t)
//	api.Respond("SoftLayer_Account", "getVirtualGuests", []map[string]any{{"id": 1}})
//	api.Handle("SoftLayer_Virtual_Guest", "powerOffSoft", func(c mock.Call) (any, error) {
//		return true, nil
//	})
//
// or loaded from a YAML fixture file:
//
//	methods:
//	  - service: SoftLayer_Account
//	    method: getVirtualGuests
//	    responses:
//	      - condition:
//	          filter: web01
//	        result: [{id: 101}, {id: 202}]
//	      - result: []
//	  - service: SoftLayer_Virtual_Guest
//	    method: deleteObject
//	    responses:
//	      - error: "Cancellation not allowed"
//	        code: SoftLayer_Exception_NotReady
//
// Unregistered methods answer with a SoftLayer_Exception_MethodNotFound
// error so that unexpected calls fail loudly.
//
// MockClock provides a controllable time source for code that stamps
// requests with the current time.
package mock
