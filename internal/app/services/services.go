// Package services holds the enrollment business logic.
//
// Services defined in this package:
//   - EnrollmentService: student, instructor and admin views over subscriptions
//   - ProgressService: records lesson watch time feeding the student view
//
// Each call opens its own unit of work and commits at most once.
package services
