// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
}

var tenantPlan string

var createTenantCmd = &cobra.Command{
	Use:   "create [company-name] [admin-email]",
	Short: "Provision a tenant with its first administrator",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Data struct {
				Tenant     *types.Tenant     `json:"tenant"`
				Invitation *types.Invitation `json:"invitation"`
			} `json:"data"`
		}

		err := newAPIClient().post(context.Background(), "/api/v0/tenants", map[string]string{
			"company_name": args[0],
			"admin_email":  args[1],
			"plan":         tenantPlan,
		}, &out)
		if err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}

		fmt.Printf("Tenant created: %s (ID: %s)\n", out.Data.Tenant.CompanyName, out.Data.Tenant.ID)
		return nil
	},
}

var listTenantsCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Data []*types.Tenant `json:"data"`
		}

		if err := newAPIClient().get(context.Background(), "/api/v0/tenants", &out); err != nil {
			return fmt.Errorf("failed to list tenants: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMPANY\tSTATUS\tPLAN\tCREATED_AT")
		for _, t := range out.Data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.CompanyName, t.Status, t.Plan, t.CreatedAt)
		}
		w.Flush()
		return nil
	},
}

var deleteTenantCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a tenant and everything scoped to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().delete(context.Background(), "/api/v0/tenants/"+args[0]); err != nil {
			return fmt.Errorf("failed to delete tenant: %w", err)
		}

		fmt.Printf("Tenant deleted: %s\n", args[0])
		return nil
	},
}

var suspendTenantCmd = &cobra.Command{
	Use:   "suspend [id]",
	Short: "Suspend a tenant and disable its members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().post(context.Background(), "/api/v0/tenants/"+args[0]+"/suspend", nil, nil); err != nil {
			return fmt.Errorf("failed to suspend tenant: %w", err)
		}

		fmt.Printf("Tenant suspended: %s\n", args[0])
		return nil
	},
}

var reactivateTenantCmd = &cobra.Command{
	Use:   "reactivate [id]",
	Short: "Reactivate a suspended tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().post(context.Background(), "/api/v0/tenants/"+args[0]+"/reactivate", nil, nil); err != nil {
			return fmt.Errorf("failed to reactivate tenant: %w", err)
		}

		fmt.Printf("Tenant reactivated: %s\n", args[0])
		return nil
	},
}

var changePlanCmd = &cobra.Command{
	Use:   "plan [id] [plan]",
	Short: "Change a tenant's subscription plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newAPIClient().post(context.Background(), "/api/v0/tenants/"+args[0]+"/plan", map[string]string{
			"plan": args[1],
		}, nil)
		if err != nil {
			return fmt.Errorf("failed to change plan: %w", err)
		}

		fmt.Printf("Plan updated: %s -> %s\n", args[0], args[1])
		return nil
	},
}

var replaceAdminCmd = &cobra.Command{
	Use:   "replace-admin [id] [new-admin-email] [old-membership-id]",
	Short: "Replace the tenant administrator",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newAPIClient().post(context.Background(), "/api/v0/tenants/"+args[0]+"/replace-admin", map[string]string{
			"new_admin_email":   args[1],
			"old_membership_id": args[2],
		}, nil)
		if err != nil {
			return fmt.Errorf("failed to replace administrator: %w", err)
		}

		fmt.Printf("Administrator replaced on tenant %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(createTenantCmd)
	tenantCmd.AddCommand(listTenantsCmd)
	tenantCmd.AddCommand(deleteTenantCmd)
	tenantCmd.AddCommand(suspendTenantCmd)
	tenantCmd.AddCommand(reactivateTenantCmd)
	tenantCmd.AddCommand(changePlanCmd)
	tenantCmd.AddCommand(replaceAdminCmd)

	createTenantCmd.Flags().StringVar(&tenantPlan, "plan", "free", "Subscription plan for the new tenant")
}
