// Package leadform implements the lead-capture flow behind the solar
// insurance estimate form: field validation, the premium estimator, and the
// step controller that moves a visitor from property details to the estimate
// reveal, the email capture and (optionally) a confirmation screen.
//
// The package is presentation-free. HTML and terminal front-ends drive a
// Controller and render the View snapshots it returns:
//
//	ctrl := leadform.NewController(leadform.ThreeStep(),
//	    leadform.WithAdapter(adapter),
//	)
//	_ = ctrl.SetField(leadform.FieldSquareFootage, "120")
//	_ = ctrl.SetField(leadform.FieldSolarValue, "15000")
//	if err := ctrl.SubmitDetails(); err != nil {
//	    // errors.Is(err, leadform.ErrInvalidInput); see ctrl.View().Errors
//	}
//
// Two variants ship as presets. ThreeStep validates on submit and ends on a
// confirmation step after the adapter succeeds. TwoStep validates on every
// change, enforces an area range and delegates the final submission to the
// transport's native form post.
package leadform
