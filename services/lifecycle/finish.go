package lifecycle

import (
	"context"
	"fmt"

	"driver-dispatch/constants"
	"driver-dispatch/logger"
	"driver-dispatch/models/driver"
	"driver-dispatch/services/resume"
	"driver-dispatch/utils"
)

// FinishResult reports the non-fatal outcome detail of a finish: the
// passenger notification may have been skipped for a missing or invalid
// email, which is logged rather than raised.
type FinishResult struct {
	NotificationSkipped bool   `json:"notification_skipped"`
	SkipReason          string `json:"skip_reason,omitempty"`
}

// FinishService closes a service out: the finish checkpoint and the
// operational end time are written first, then the evidence photo is
// persisted (a failure there aborts the operation even though the
// checkpoint is already committed), and finally the resume summary is
// archived and handed to the mail boundary. Mail failures are logged
// and never surfaced; a missing passenger email skips the passenger
// copy while the driver copy is still attempted.
func (e *Engine) FinishService(ctx context.Context, orderID uint, drv driver.Driver, observations, image, version string) (FinishResult, error) {
	var result FinishResult

	reference, err := e.Orders.ResolveReference(ctx, orderID, drv.Code)
	if err != nil {
		return result, err
	}

	now := e.Now()
	err = e.Tracking.UpsertFinish(ctx, reference,
		now.Format(constants.ClockLayout), now.Format(constants.CheckpointLayout),
		appNotes(observations), now.Format(constants.AuthoredLayout), version)
	if err != nil {
		return result, err
	}

	if image != "" {
		if err := e.Evidence.Save(reference, image); err != nil {
			return result, fmt.Errorf("%w: %v", ErrEvidenceUpload, err)
		}
	}

	view, err := e.GetService(ctx, orderID, drv)
	if err != nil {
		return result, err
	}

	payload := resume.Service{
		ID:            orderID,
		Reference:     reference,
		Date:          view.ScheduledDate,
		StartDate:     view.StartDate,
		StartTime:     view.StartTime,
		EndTime:       view.EndTime,
		Source:        view.Source,
		Destiny:       view.Destiny,
		PassengerName: view.PassengerName + " " + view.PassengerLastName,
		DriverName:    drv.FullName(),
		DriverCode:    drv.Code,
	}

	if elapsed, err := utils.ElapsedTime(view.StartTime, view.EndTime); err == nil {
		payload.Elapsed = utils.FormatElapsed(elapsed)
	}

	points, err := e.Pings.RidePoints(ctx, reference)
	if err != nil {
		logger.Error("Failed to load route points for "+reference, err)
		points = nil
	}
	if len(points) > 0 {
		if url, err := e.Maps.CreateMap(reference, points); err == nil {
			payload.MapURL = url
		} else {
			logger.Error("Failed to render route map for "+reference, err)
		}
		if addr := e.Maps.Address(points[0]); addr != "" {
			payload.Source = addr
		}
		if addr := e.Maps.Address(points[len(points)-1]); addr != "" {
			payload.Destiny = addr
		}
		payload.Distance = fmt.Sprintf("%.1f km", e.Maps.Distance(points))
	}

	email := view.PassengerEmail
	switch {
	case email == "":
		result.NotificationSkipped = true
		result.SkipReason = "passenger has no email on file"
		logger.Warning(fmt.Sprintf("Service %s finished, resume not sent: passenger has no email", reference))
	case !utils.ValidEmail(email):
		result.NotificationSkipped = true
		result.SkipReason = "passenger email is invalid"
		logger.Warning(fmt.Sprintf("Service %s finished, resume not sent: invalid passenger email", reference))
	default:
		html, plaintext := resume.RenderPassenger(payload)

		if err := e.Snapshots.SaveResume(ctx, orderID, reference, html, now.Format(constants.CheckpointLayout)); err != nil {
			logger.Error("Failed to archive resume snapshot for "+reference, err)
		}

		subject := fmt.Sprintf("Resumen de su servicio con Transportes Ejecutivos(%s) %s", reference, view.StartDate)
		if err := e.Mail.Send(html, plaintext, subject, map[string]string{email: payload.PassengerName}); err != nil {
			logger.Error("Failed to send passenger resume for "+reference, err)
		}
	}

	html, plaintext := resume.RenderDriver(payload)
	subject := fmt.Sprintf("Resumen del servicio con Transportes Ejecutivos(%s) %s", reference, view.StartDate)
	if err := e.Mail.Send(html, plaintext, subject, map[string]string{drv.Email: drv.FullName()}); err != nil {
		logger.Error("Failed to send driver resume for "+reference, err)
	}

	return result, nil
}
