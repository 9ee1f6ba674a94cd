package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/onboarding"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

type onboardingView struct {
	onboarding.Progress
	Onboarded bool `json:"onboarded"`
}

func OnboardingState(logg *logger.Logger) http.HandlerFunc {
	return onboardingStep(logg, func(ctx context.Context, wiz *onboarding.Wizard, _ *http.Request) (onboarding.Progress, error) {
		return wiz.State(ctx)
	})
}

func OnboardingVendorType(logg *logger.Logger) http.HandlerFunc {
	return onboardingStep(logg, func(ctx context.Context, wiz *onboarding.Wizard, r *http.Request) (onboarding.Progress, error) {
		var body onboarding.VendorTypeInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return onboarding.Progress{}, err
		}
		return wiz.SelectVendorType(ctx, body)
	})
}

func OnboardingBusiness(logg *logger.Logger) http.HandlerFunc {
	return onboardingStep(logg, func(ctx context.Context, wiz *onboarding.Wizard, r *http.Request) (onboarding.Progress, error) {
		var body onboarding.BusinessInfo
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return onboarding.Progress{}, err
		}
		return wiz.SubmitBusinessInfo(ctx, body)
	})
}

func OnboardingDocuments(logg *logger.Logger) http.HandlerFunc {
	return onboardingStep(logg, func(ctx context.Context, wiz *onboarding.Wizard, r *http.Request) (onboarding.Progress, error) {
		var body onboarding.DocumentsInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return onboarding.Progress{}, err
		}
		return wiz.SubmitDocuments(ctx, body)
	})
}

func OnboardingBack(logg *logger.Logger) http.HandlerFunc {
	return onboardingStep(logg, func(ctx context.Context, wiz *onboarding.Wizard, _ *http.Request) (onboarding.Progress, error) {
		return wiz.Back(ctx)
	})
}

func OnboardingComplete(logg *logger.Logger) http.HandlerFunc {
	return onboardingStep(logg, func(ctx context.Context, wiz *onboarding.Wizard, _ *http.Request) (onboarding.Progress, error) {
		return wiz.Complete(ctx)
	})
}

func onboardingStep(logg *logger.Logger, step func(context.Context, *onboarding.Wizard, *http.Request) (onboarding.Progress, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}

		progress, err := step(r.Context(), ws.Onboarding, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		onboarded, err := ws.Onboarding.Onboarded(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, onboardingView{Progress: progress, Onboarded: onboarded})
	}
}
